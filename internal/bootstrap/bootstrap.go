package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	doseinadapter "doser/internal/modules/dose/adapter/in"
	doseoutadapter "doser/internal/modules/dose/adapter/out"
	"doser/internal/modules/dose/domain"
	dosedto "doser/internal/modules/dose/dto"
	doseout "doser/internal/modules/dose/port/out"
	doseservice "doser/internal/modules/dose/service"
	doseusecase "doser/internal/modules/dose/usecase"
	"doser/internal/platform/clock"
	"doser/internal/platform/config"
	"doser/internal/platform/id"
	"doser/internal/platform/logger"
	uiapp "doser/internal/ui/app"
)

type App struct {
	DoseCLI doseinadapter.CLIHandler
	DoseTUI doseinadapter.TUIHandler
	Logger  *slog.Logger

	cfg     config.Config
	manager *doseservice.DoseManager
	closer  io.Closer
}

func New(cfg config.Config) (*App, error) {
	log, closer, err := logger.Open(cfg.LogFile, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("open logger: %w", err)
	}
	catalog, err := doseoutadapter.NewFileMethodCatalog(cfg.MethodsFile)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("new method catalog: %w", err)
	}

	manager := doseservice.NewDoseManager(clock.SystemClock{}, id.UUID{}, log)
	doseUC := doseusecase.NewInteractor(manager, catalog)

	return &App{
		DoseCLI: doseinadapter.NewCLIHandler(doseUC),
		DoseTUI: doseinadapter.NewTUIHandler(doseUC),
		Logger:  log,
		cfg:     cfg,
		manager: manager,
		closer:  closer,
	}, nil
}

func (a *App) Close() error {
	return a.closer.Close()
}

// StartPoller runs a poller publishing to pub until the returned stop
// function is called. stop waits for the poller goroutine to exit.
func (a *App) StartPoller(ctx context.Context, pub doseout.RowPublisher) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	poller := doseservice.NewPoller(a.manager, pub, a.cfg.PollInterval, a.Logger)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()
	return func() {
		poller.Stop()
		cancel()
		wg.Wait()
	}
}

// SeedDemo adds one fresh test dose and ten that already ran out.
func (a *App) SeedDemo(ctx context.Context) error {
	if _, err := a.DoseTUI.Add(ctx, "Test", domain.Test.Key, 0); err != nil {
		return err
	}
	for i := 0; i < 10; i++ {
		if _, err := a.DoseTUI.Add(ctx, "expired", domain.Test.Key, time.Minute); err != nil {
			return err
		}
	}
	return nil
}

func RunTUI(ctx context.Context, app *App) error {
	pub := doseoutadapter.NewChannelPublisher()
	stop := app.StartPoller(ctx, pub)
	defer stop()

	model := uiapp.NewModel(app.DoseTUI, pub.Updates())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// RunWatch prints every poll until all rows have expired or ctx ends.
func RunWatch(ctx context.Context, app *App, w io.Writer) error {
	done := make(chan struct{})
	var once sync.Once
	writer := doseoutadapter.NewWriterPublisher(w)
	stop := app.StartPoller(ctx, publisherFunc(func(ctx context.Context, rows []dosedto.RowOutput) {
		writer.Publish(ctx, rows)
		if allExpired(rows) {
			once.Do(func() { close(done) })
		}
	}))
	defer stop()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

type publisherFunc func(ctx context.Context, rows []dosedto.RowOutput)

func (f publisherFunc) Publish(ctx context.Context, rows []dosedto.RowOutput) { f(ctx, rows) }

func allExpired(rows []dosedto.RowOutput) bool {
	for _, r := range rows {
		if r.Status != string(domain.StatusExpired) {
			return false
		}
	}
	return true
}
