package widgetService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/stockswidget/stocks_widget_service/config"
	"github.com/stockswidget/stocks_widget_service/data/cache"
	"github.com/stockswidget/stocks_widget_service/internal/instruments"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/service"
	"github.com/stockswidget/stocks_widget_service/utils"
)

type Repository interface {
	InsertTransaction(ctx context.Context, t model.Transaction) (transactionID int64, err error)
	UpdateTransaction(ctx context.Context, t model.Transaction) error
	DeleteTransaction(ctx context.Context, transactionID int64) error
	GetTransaction(ctx context.Context, transactionID int64) (model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}

type Cache interface {
	SetBoardSnapshot(ctx context.Context, snapshot model.BoardSnapshot) error
	GetBoardSnapshot(ctx context.Context) (model.BoardSnapshot, error)
}

type TradingviewApi interface {
	GetQuote(ctx context.Context, symbol string) model.Quote
}

type VanguardApi interface {
	GetFundQuote(ctx context.Context, portID string) model.Quote
}

type Renderer interface {
	Render(instrumentList []model.Instrument, quotes []model.Quote, now time.Time) model.BoardSnapshot
}

type Hub interface {
	Broadcast(event model.Event)
	Send(widgetID string, event model.Event) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, transactions []model.Transaction, vusaQuote model.Quote) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
	DeleteOldFiles(ctx context.Context) error
}

type WidgetService struct {
	cfg             *config.Config
	instrumentList  []model.Instrument
	repo            Repository
	cache           Cache
	tradingviewApi  TradingviewApi
	vanguardApi     VanguardApi
	renderer        Renderer
	hub             Hub
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage

	// one refresh cycle at a time; manual and scheduled triggers share it
	refreshMu sync.Mutex
}

func New(
	cfg *config.Config,
	instrumentList []model.Instrument,
	repo Repository,
	boardCache Cache,
	tradingviewApi TradingviewApi,
	vanguardApi VanguardApi,
	renderer Renderer,
	hub Hub,
	reportGenerator ReportGenerator,
	cloudStorage CloudStorage,
) *WidgetService {
	return &WidgetService{
		cfg:             cfg,
		instrumentList:  instrumentList,
		repo:            repo,
		cache:           boardCache,
		tradingviewApi:  tradingviewApi,
		vanguardApi:     vanguardApi,
		renderer:        renderer,
		hub:             hub,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
	}
}

// RefreshAll runs one refresh cycle and pushes the result to every attached
// widget. Used by the periodic job and by app-level refresh requests.
func (s *WidgetService) RefreshAll(ctx context.Context) error {
	return s.refresh(ctx, "")
}

// RefreshWidget runs one refresh cycle scoped to a single widget instance
// (manual refresh tap).
func (s *WidgetService) RefreshWidget(ctx context.Context, widgetID string) error {
	return s.refresh(ctx, widgetID)
}

func (s *WidgetService) refresh(ctx context.Context, widgetID string) (err error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WidgetService.refresh"

	slog.Debug("refresh start", slog.String("rqID", rqID), slog.String("op", op), slog.String("widgetID", widgetID))
	defer func() {
		slog.Debug("refresh finished", slog.String("rqID", rqID), slog.String("op", op), slog.String("widgetID", widgetID))
	}()

	// loading state goes out before any network call so the tap gets
	// instant feedback
	s.push(rqID, widgetID, model.BoardEvent(model.LoadingSnapshot()))

	defer func() {
		if r := recover(); r != nil {
			slog.Error("refresh cycle panic", slog.String("rqID", rqID), slog.String("op", op), slog.Any("panic", r))
			s.push(rqID, widgetID, model.BoardEvent(model.BlankSnapshot()))
			err = fmt.Errorf("refresh cycle panic: %v", r)
		}
	}()

	quotes := s.fetchQuotes(ctx)

	snapshot := s.renderer.Render(s.instrumentList, quotes, time.Now())

	if cacheErr := s.cache.SetBoardSnapshot(ctx, snapshot); cacheErr != nil {
		// widgets still get the fresh render; only restart recovery suffers
		slog.Warn("can't store board snapshot", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", cacheErr.Error()))
	}

	s.push(rqID, widgetID, model.BoardEvent(snapshot))

	return nil
}

// fetchQuotes walks the instrument list sequentially, one endpoint call per
// instrument. A failed fetch stays a NaN quote for that row only.
func (s *WidgetService) fetchQuotes(ctx context.Context) []model.Quote {
	quotes := make([]model.Quote, 0, len(s.instrumentList))
	for _, instrument := range s.instrumentList {
		switch instrument.Endpoint {
		case model.EndpointVanguardGraphQL:
			quotes = append(quotes, s.vanguardApi.GetFundQuote(ctx, instrument.Symbol))
		default:
			quotes = append(quotes, s.tradingviewApi.GetQuote(ctx, instrument.Symbol))
		}
	}
	return quotes
}

func (s *WidgetService) push(rqID, widgetID string, event model.Event) {
	if widgetID == "" {
		s.hub.Broadcast(event)
		return
	}
	if err := s.hub.Send(widgetID, event); err != nil {
		slog.Warn("can't push event to widget", slog.String("rqID", rqID), slog.String("widgetID", widgetID), slog.String("err", err.Error()))
	}
}

// GetBoardSnapshot returns the latest stored render.
func (s *WidgetService) GetBoardSnapshot(ctx context.Context) (model.BoardSnapshot, error) {
	snapshot, err := s.cache.GetBoardSnapshot(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return model.BoardSnapshot{}, service.ErrNotFound
		}
		return model.BoardSnapshot{}, err
	}
	return snapshot, nil
}

// GetVusaQuote serves the transaction entry screen's live market header.
func (s *WidgetService) GetVusaQuote(ctx context.Context) (model.Quote, error) {
	quote := s.tradingviewApi.GetQuote(ctx, instruments.VusaSymbol)
	if quote.Failed() {
		return model.Quote{}, service.ErrFetchFailed
	}
	return quote, nil
}

// CleanupOldReports deletes stale uploaded reports from cloud storage.
func (s *WidgetService) CleanupOldReports(ctx context.Context) error {
	if s.cloudStorage == nil {
		return nil
	}
	return s.cloudStorage.DeleteOldFiles(ctx)
}
