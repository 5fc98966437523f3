package capital

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/capital/date"
	"go.uber.org/zap"
)

// Book is the entry point of the ledger engine. It reads everything from its
// store on each call and holds no derived state: reports are reduced again on
// every read.
type Book struct {
	store    Store
	units    Units
	log      *zap.Logger
	notifier Notifier
	now      func() time.Time
}

// Option configures a Book.
type Option func(*Book)

// WithLogger sets the logger, the default discards everything.
func WithLogger(l *zap.Logger) Option { return func(b *Book) { b.log = l } }

// WithNotifier sets where events are published after each write.
func WithNotifier(n Notifier) Option { return func(b *Book) { b.notifier = n } }

// WithUnits sets the base unit and the stable asset.
func WithUnits(u Units) Option { return func(b *Book) { b.units = u } }

// WithClock sets the clock used for the current month and close timestamps.
func WithClock(now func() time.Time) Option { return func(b *Book) { b.now = now } }

// NewBook returns a Book reading from and writing to store.
func NewBook(store Store, opts ...Option) *Book {
	b := &Book{
		store:    store,
		units:    DefaultUnits,
		log:      zap.NewNop(),
		notifier: noNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Units returns the units the book accounts in.
func (b *Book) Units() Units { return b.units }

// CurrentMonth returns the calendar month of the book's clock.
func (b *Book) CurrentMonth() date.Month { return date.Of(b.now()).YearMonth() }

// state is everything the resolver and the reducer need for one owner.
type state struct {
	ledger    *Ledger
	summaries Summaries
	initial   Money
}

func (b *Book) load(ctx context.Context, owner string) (state, error) {
	txs, err := b.store.ListTransactions(ctx, owner)
	if err != nil {
		return state{}, fmt.Errorf("could not list transactions of %q: %w", owner, err)
	}
	sums, err := b.store.ListMonthSummaries(ctx, owner)
	if err != nil {
		return state{}, fmt.Errorf("could not list month summaries of %q: %w", owner, err)
	}
	initial, err := b.InitialCapital(ctx, owner)
	if err != nil {
		return state{}, err
	}
	return state{ledger: NewLedger(txs...), summaries: NewSummaries(sums...), initial: initial}, nil
}

// InitialCapital returns the capital base of the first tracked month.
func (b *Book) InitialCapital(ctx context.Context, owner string) (Money, error) {
	v, err := b.store.GetInitialCapital(ctx, owner)
	if err != nil {
		return Money{}, fmt.Errorf("could not read initial capital of %q: %w", owner, err)
	}
	return M(v.Decimal(), b.units.Base), nil
}

// SetInitialCapital changes the initial capital. Every month not chained to a
// close follows on next read.
func (b *Book) SetInitialCapital(ctx context.Context, owner string, v Money) error {
	v = v.In(b.units.Base)
	if v.Currency() != b.units.Base {
		return invalid("set initial capital", fmt.Errorf("%w: initial capital must be in %s, got %s", ErrInvalidTransaction, b.units.Base, v.Currency()))
	}
	if v.IsNegative() {
		return invalid("set initial capital", fmt.Errorf("%w: initial capital %s", ErrNegativeAmount, v))
	}
	if err := b.store.SetInitialCapital(ctx, owner, v); err != nil {
		return fmt.Errorf("could not set initial capital of %q: %w", owner, err)
	}
	b.log.Info("initial capital set", zap.String("owner", owner), zap.Stringer("value", v))
	return nil
}

// Summaries returns the close history, sorted by month.
func (b *Book) Summaries(ctx context.Context, owner string) (Summaries, error) {
	sums, err := b.store.ListMonthSummaries(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("could not list month summaries of %q: %w", owner, err)
	}
	return NewSummaries(sums...), nil
}

// Transactions returns every transaction passing f, in ledger order.
func (b *Book) Transactions(ctx context.Context, owner string, f Filter) ([]Transaction, error) {
	txs, err := b.store.ListTransactions(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("could not list transactions of %q: %w", owner, err)
	}
	return f.Apply(NewLedger(txs...).All()), nil
}

// Record validates tx and stores it. Transactions dated in a closed month are rejected.
func (b *Book) Record(ctx context.Context, owner string, tx Transaction) (Transaction, error) {
	tx, err := tx.Validate(b.units)
	if err != nil {
		return tx, err
	}
	sums, err := b.Summaries(ctx, owner)
	if err != nil {
		return tx, err
	}
	if sums.IsClosed(tx.Month()) {
		return tx, invalid("record", fmt.Errorf("%w: %s", ErrClosedPeriod, tx.Month()))
	}
	if err := b.store.CreateTransaction(ctx, owner, tx); err != nil {
		return tx, fmt.Errorf("could not record transaction %s: %w", tx.ID, err)
	}
	b.log.Info("transaction recorded", zap.String("owner", owner), zap.String("id", tx.ID), zap.Stringer("type", tx.Type), zap.Stringer("date", tx.Date))
	b.notify(ctx, Event{Kind: EventTransactionCreated, Owner: owner, Month: tx.Month(), TransactionID: tx.ID})
	return tx, nil
}

// Update replaces the transaction sharing tx's id. Neither the old nor the new
// date may fall in a closed month.
func (b *Book) Update(ctx context.Context, owner string, tx Transaction) (Transaction, error) {
	if tx.ID == "" {
		return tx, invalid("update", fmt.Errorf("%w: id is missing", ErrInvalidTransaction))
	}
	tx, err := tx.Validate(b.units)
	if err != nil {
		return tx, err
	}
	s, err := b.load(ctx, owner)
	if err != nil {
		return tx, err
	}
	old, ok := s.ledger.Get(tx.ID)
	if !ok {
		return tx, fmt.Errorf("transaction %s: %w", tx.ID, ErrNotFound)
	}
	for _, m := range []date.Month{old.Month(), tx.Month()} {
		if s.summaries.IsClosed(m) {
			return tx, invalid("update", fmt.Errorf("%w: %s", ErrClosedPeriod, m))
		}
	}
	if err := b.store.UpdateTransaction(ctx, owner, tx); err != nil {
		return tx, fmt.Errorf("could not update transaction %s: %w", tx.ID, err)
	}
	b.log.Info("transaction updated", zap.String("owner", owner), zap.String("id", tx.ID), zap.Stringer("date", tx.Date))
	b.notify(ctx, Event{Kind: EventTransactionUpdated, Owner: owner, Month: tx.Month(), TransactionID: tx.ID})
	return tx, nil
}

// Delete removes a transaction for good, unless it is dated in a closed month.
func (b *Book) Delete(ctx context.Context, owner, id string) error {
	s, err := b.load(ctx, owner)
	if err != nil {
		return err
	}
	tx, ok := s.ledger.Get(id)
	if !ok {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if s.summaries.IsClosed(tx.Month()) {
		return invalid("delete", fmt.Errorf("%w: %s", ErrClosedPeriod, tx.Month()))
	}
	if err := b.store.DeleteTransaction(ctx, owner, id); err != nil {
		return fmt.Errorf("could not delete transaction %s: %w", id, err)
	}
	b.log.Info("transaction deleted", zap.String("owner", owner), zap.String("id", id))
	b.notify(ctx, Event{Kind: EventTransactionDeleted, Owner: owner, Month: tx.Month(), TransactionID: id})
	return nil
}

// Import records txs in order. Every transaction is checked before the first
// is recorded, so an invalid one or one dated in a closed month records nothing.
func (b *Book) Import(ctx context.Context, owner string, txs []Transaction) ([]Transaction, error) {
	sums, err := b.Summaries(ctx, owner)
	if err != nil {
		return nil, err
	}
	var errs []error
	checked := make([]Transaction, 0, len(txs))
	for i, tx := range txs {
		tx, err := tx.Validate(b.units)
		if err == nil && sums.IsClosed(tx.Month()) {
			err = fmt.Errorf("%w: %s", ErrClosedPeriod, tx.Month())
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("transaction %d: %w", i+1, err))
			continue
		}
		checked = append(checked, tx)
	}
	if len(errs) > 0 {
		return nil, invalid("import", errors.Join(errs...))
	}

	recorded := make([]Transaction, 0, len(checked))
	for _, tx := range checked {
		tx, err := b.Record(ctx, owner, tx)
		if err != nil {
			return recorded, err
		}
		recorded = append(recorded, tx)
	}
	return recorded, nil
}

func (b *Book) resolve(s state, m date.Month) Base {
	return ResolveBase(m, s.summaries, s.ledger.Months(), b.CurrentMonth(), s.initial)
}

// ResolveBase returns the capital base of month m.
func (b *Book) ResolveBase(ctx context.Context, owner string, m date.Month) (Base, error) {
	s, err := b.load(ctx, owner)
	if err != nil {
		return Base{}, err
	}
	return b.resolve(s, m), nil
}

func (b *Book) report(s state, m date.Month) Report {
	base := b.resolve(s, m)
	r := Reduce(b.units, base.Value, s.ledger.Month(m))
	r.Month = m
	r.BaseSource = base.Source
	r.Closed = s.summaries.IsClosed(m)
	return r
}

// Report reduces every transaction of month m from its capital base.
func (b *Book) Report(ctx context.Context, owner string, m date.Month) (Report, error) {
	s, err := b.load(ctx, owner)
	if err != nil {
		return Report{}, err
	}
	return b.report(s, m), nil
}

// View is a month report along with the transactions selected for display.
type View struct {
	Report       Report        `json:"report"`       // Report is computed from every transaction of the month.
	Transactions []Transaction `json:"transactions"` // Transactions are the month's transactions passing the filter.
	Total        int           `json:"total"`        // Total is the number of transactions in the month.
}

// MonthView returns the report of month m and its transactions passing f.
func (b *Book) MonthView(ctx context.Context, owner string, m date.Month, f Filter) (View, error) {
	s, err := b.load(ctx, owner)
	if err != nil {
		return View{}, err
	}
	txs := s.ledger.Month(m)
	return View{Report: b.report(s, m), Transactions: f.Apply(txs), Total: len(txs)}, nil
}

// Close freezes month m and returns its summary along with the next month to work on.
//
// Closing a month twice fails with ErrMonthClosed, whether the duplicate is
// caught here or by the store.
func (b *Book) Close(ctx context.Context, owner string, m date.Month) (MonthSummary, date.Month, error) {
	s, err := b.load(ctx, owner)
	if err != nil {
		return MonthSummary{}, m, err
	}
	summary, err := Close(m, b.resolve(s, m), b.report(s, m), s.summaries, b.now())
	if err != nil {
		return MonthSummary{}, m, err
	}
	if err := b.store.CreateMonthSummary(ctx, owner, summary); err != nil {
		if errors.Is(err, ErrDuplicateMonth) {
			return MonthSummary{}, m, invalid("close", fmt.Errorf("%w: %s: %w", ErrMonthClosed, m, err))
		}
		return MonthSummary{}, m, fmt.Errorf("could not close %s: %w", m, err)
	}
	b.log.Info("month closed",
		zap.String("owner", owner),
		zap.Stringer("month", m),
		zap.Stringer("capitalBase", summary.CapitalBase),
		zap.Stringer("net", summary.Net))
	b.notify(ctx, Event{Kind: EventMonthClosed, Owner: owner, Month: m, CapitalBase: summary.CapitalBase, Net: summary.Net})
	return summary, m.Next(), nil
}

// WorkingMonth returns the month following the latest close, or the first
// month with transactions (the current month when there are none) if nothing
// was ever closed.
func (b *Book) WorkingMonth(ctx context.Context, owner string) (date.Month, error) {
	s, err := b.load(ctx, owner)
	if err != nil {
		return date.Month{}, err
	}
	if latest, ok := s.summaries.Latest(); ok {
		return latest.Month.Next(), nil
	}
	if months := s.ledger.Months(); len(months) > 0 {
		return months[0], nil
	}
	return b.CurrentMonth(), nil
}

func (b *Book) notify(ctx context.Context, e Event) {
	e.Time = b.now()
	if err := b.notifier.Notify(ctx, e); err != nil {
		b.log.Warn("event not published",
			zap.String("event", string(e.Kind)),
			zap.String("owner", e.Owner),
			zap.Stringer("month", e.Month),
			zap.Error(err))
	}
}
