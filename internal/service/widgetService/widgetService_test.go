package widgetService

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stockswidget/stocks_widget_service/config"
	"github.com/stockswidget/stocks_widget_service/data/cache"
	"github.com/stockswidget/stocks_widget_service/data/repository"
	"github.com/stockswidget/stocks_widget_service/internal/model"
	"github.com/stockswidget/stocks_widget_service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	transactions []model.Transaction
	nextID       int64
	insertErr    error
	updateErr    error
}

func (r *fakeRepo) InsertTransaction(ctx context.Context, t model.Transaction) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.nextID++
	t.ID = r.nextID
	r.transactions = append(r.transactions, t)
	return t.ID, nil
}

func (r *fakeRepo) UpdateTransaction(ctx context.Context, t model.Transaction) error {
	return r.updateErr
}

func (r *fakeRepo) DeleteTransaction(ctx context.Context, transactionID int64) error {
	return nil
}

func (r *fakeRepo) GetTransaction(ctx context.Context, transactionID int64) (model.Transaction, error) {
	for _, t := range r.transactions {
		if t.ID == transactionID {
			return t, nil
		}
	}
	return model.Transaction{}, repository.ErrNotFound
}

func (r *fakeRepo) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return r.transactions, nil
}

type fakeCache struct {
	snapshot *model.BoardSnapshot
	setErr   error
}

func (c *fakeCache) SetBoardSnapshot(ctx context.Context, snapshot model.BoardSnapshot) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.snapshot = &snapshot
	return nil
}

func (c *fakeCache) GetBoardSnapshot(ctx context.Context) (model.BoardSnapshot, error) {
	if c.snapshot == nil {
		return model.BoardSnapshot{}, cache.ErrNotFound
	}
	return *c.snapshot, nil
}

type fakeQuoteApi struct {
	quotes map[string]model.Quote
	calls  []string
}

func (a *fakeQuoteApi) GetQuote(ctx context.Context, symbol string) model.Quote {
	a.calls = append(a.calls, symbol)
	if q, ok := a.quotes[symbol]; ok {
		return q
	}
	return model.FailedQuote()
}

func (a *fakeQuoteApi) GetFundQuote(ctx context.Context, portID string) model.Quote {
	return a.GetQuote(ctx, portID)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(instrumentList []model.Instrument, quotes []model.Quote, now time.Time) model.BoardSnapshot {
	views := make([]model.InstrumentView, 0, len(instrumentList))
	for i, instrument := range instrumentList {
		price := "N/A"
		if i < len(quotes) && !quotes[i].Failed() {
			price = "ok"
		}
		views = append(views, model.InstrumentView{Label: instrument.Label, Price: price})
	}
	return model.BoardSnapshot{Instruments: views, Dividers: []bool{}}
}

type fakeHub struct {
	broadcasts []model.Event
	sends      map[string][]model.Event
}

func newFakeHub() *fakeHub {
	return &fakeHub{sends: map[string][]model.Event{}}
}

func (h *fakeHub) Broadcast(event model.Event) {
	h.broadcasts = append(h.broadcasts, event)
}

func (h *fakeHub) Send(widgetID string, event model.Event) error {
	h.sends[widgetID] = append(h.sends[widgetID], event)
	return nil
}

type fakeReportGenerator struct{}

func (fakeReportGenerator) Generate(ctx context.Context, transactions []model.Transaction, vusaQuote model.Quote) ([]byte, string, error) {
	return []byte("xlsx"), ".xlsx", nil
}

type fakeCloudStorage struct {
	uploaded []string
	deleted  int
}

func (s *fakeCloudStorage) UploadFile(ctx context.Context, reader io.Reader, filename string) (string, error) {
	s.uploaded = append(s.uploaded, filename)
	return "https://drive.google.com/file/d/test", nil
}

func (s *fakeCloudStorage) DeleteOldFiles(ctx context.Context) error {
	s.deleted++
	return nil
}

func testInstruments() []model.Instrument {
	return []model.Instrument{
		{Label: "CIWP", Symbol: "LSE:CIWP", Endpoint: model.EndpointTradingview, Lots: []model.Lot{{Shares: 1, UnitPrice: 1}}},
		{Label: "ABN", Symbol: "9179", Endpoint: model.EndpointVanguardGraphQL, Lots: []model.Lot{{Shares: 1, UnitPrice: 1}}},
	}
}

type fixture struct {
	srv   *WidgetService
	repo  *fakeRepo
	cache *fakeCache
	tv    *fakeQuoteApi
	vg    *fakeQuoteApi
	hub   *fakeHub
	drive *fakeCloudStorage
}

func newFixture() *fixture {
	f := &fixture{
		repo:  &fakeRepo{},
		cache: &fakeCache{},
		tv:    &fakeQuoteApi{quotes: map[string]model.Quote{}},
		vg:    &fakeQuoteApi{quotes: map[string]model.Quote{}},
		hub:   newFakeHub(),
		drive: &fakeCloudStorage{},
	}
	f.srv = New(
		&config.Config{},
		testInstruments(),
		f.repo,
		f.cache,
		f.tv,
		f.vg,
		fakeRenderer{},
		f.hub,
		fakeReportGenerator{},
		f.drive,
	)
	return f
}

func TestRefreshAll(t *testing.T) {
	t.Run("loading event precedes the rendered board", func(t *testing.T) {
		f := newFixture()
		f.tv.quotes["LSE:CIWP"] = model.Quote{Price: 1.5}
		f.vg.quotes["9179"] = model.Quote{Price: 31.42}

		require.NoError(t, f.srv.RefreshAll(context.Background()))

		require.Len(t, f.hub.broadcasts, 2)
		first, ok := f.hub.broadcasts[0].Payload.(model.BoardSnapshot)
		require.True(t, ok)
		assert.True(t, first.Loading)

		second, ok := f.hub.broadcasts[1].Payload.(model.BoardSnapshot)
		require.True(t, ok)
		assert.False(t, second.Loading)
		require.Len(t, second.Instruments, 2)
	})

	t.Run("failed fetch stays isolated to its row", func(t *testing.T) {
		f := newFixture()
		f.vg.quotes["9179"] = model.Quote{Price: 31.42}
		// tradingview quote missing, so CIWP fails

		require.NoError(t, f.srv.RefreshAll(context.Background()))

		snapshot := f.hub.broadcasts[len(f.hub.broadcasts)-1].Payload.(model.BoardSnapshot)
		assert.Equal(t, "N/A", snapshot.Instruments[0].Price)
		assert.Equal(t, "ok", snapshot.Instruments[1].Price)
	})

	t.Run("snapshot is stored for restart recovery", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.srv.RefreshAll(context.Background()))

		require.NotNil(t, f.cache.snapshot)
		stored, err := f.srv.GetBoardSnapshot(context.Background())
		require.NoError(t, err)
		assert.Len(t, stored.Instruments, 2)
	})

	t.Run("store failure does not fail the cycle", func(t *testing.T) {
		f := newFixture()
		f.cache.setErr = errors.New("redis down")

		require.NoError(t, f.srv.RefreshAll(context.Background()))

		// the board still went out
		assert.Len(t, f.hub.broadcasts, 2)
	})
}

func TestRefreshWidgetTargetsSingleWidget(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.srv.RefreshWidget(context.Background(), "widget-1"))

	assert.Empty(t, f.hub.broadcasts)
	require.Len(t, f.hub.sends["widget-1"], 2)
}

func TestGetBoardSnapshotWithoutRender(t *testing.T) {
	f := newFixture()

	_, err := f.srv.GetBoardSnapshot(context.Background())

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestGetVusaQuote(t *testing.T) {
	t.Run("live quote", func(t *testing.T) {
		f := newFixture()
		f.tv.quotes["EURONEXT:VUSA"] = model.Quote{Price: 98.5}

		quote, err := f.srv.GetVusaQuote(context.Background())

		require.NoError(t, err)
		assert.InDelta(t, 98.5, quote.Price, 1e-9)
	})

	t.Run("failed fetch maps to ErrFetchFailed", func(t *testing.T) {
		f := newFixture()

		_, err := f.srv.GetVusaQuote(context.Background())

		assert.ErrorIs(t, err, service.ErrFetchFailed)
	})
}

func TestTransactionMutationsBroadcastList(t *testing.T) {
	f := newFixture()

	created, err := f.srv.CreateTransaction(context.Background(), model.Transaction{
		Amount:   decimal.NewFromInt(10),
		BuyPrice: decimal.NewFromFloat(97.75),
		Currency: model.CurrencyEuro,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	require.Len(t, f.hub.broadcasts, 1)
	event := f.hub.broadcasts[0]
	assert.Equal(t, model.EventTransactions, event.Type)
	transactions, ok := event.Payload.([]model.Transaction)
	require.True(t, ok)
	require.Len(t, transactions, 1)
}

func TestUpdateTransactionNotFound(t *testing.T) {
	f := newFixture()
	f.repo.updateErr = repository.ErrNotFound

	err := f.srv.UpdateTransaction(context.Background(), model.Transaction{ID: 404})

	assert.ErrorIs(t, err, service.ErrNotFound)
	// no list broadcast on a failed mutation
	assert.Empty(t, f.hub.broadcasts)
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.srv.DeleteTransaction(context.Background(), 404))

	// the observable list is still re-broadcast
	require.Len(t, f.hub.broadcasts, 1)
	assert.Equal(t, model.EventTransactions, f.hub.broadcasts[0].Type)
}

func TestUploadTransactionsReport(t *testing.T) {
	t.Run("uploads and returns the link", func(t *testing.T) {
		f := newFixture()
		f.tv.quotes["EURONEXT:VUSA"] = model.Quote{Price: 98.5}

		link, err := f.srv.UploadTransactionsReport(context.Background())

		require.NoError(t, err)
		assert.Contains(t, link, "drive.google.com")
		require.Len(t, f.drive.uploaded, 1)
		assert.Contains(t, f.drive.uploaded[0], "vusa_transactions_")
	})

	t.Run("disabled storage", func(t *testing.T) {
		f := newFixture()
		f.srv.cloudStorage = nil

		_, err := f.srv.UploadTransactionsReport(context.Background())

		assert.ErrorIs(t, err, service.ErrReportUploadDisabled)
	})
}

func TestCleanupOldReports(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.srv.CleanupOldReports(context.Background()))
	assert.Equal(t, 1, f.drive.deleted)

	f.srv.cloudStorage = nil
	require.NoError(t, f.srv.CleanupOldReports(context.Background()))
}
