// Package server exposes a capital book as a JSON HTTP API.
//
// Every response is a capital.Result envelope: {"success":..,"message":..,"data":..}.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/capital"
	"github.com/etnz/capital/date"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Server serves the book's operations.
type Server struct {
	book *capital.Book
	log  *zap.Logger
}

func New(book *capital.Book, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{book: book, log: log}
}

// Handler returns the gin engine serving every route.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	s.Register(r)
	return r
}

func (s *Server) Register(r *gin.Engine) {
	r.GET("/healthz", s.health)

	g := r.Group("/owners/:owner")
	g.GET("/capital", s.getCapital)
	g.PUT("/capital", s.putCapital)
	g.GET("/transactions", s.listTransactions)
	g.POST("/transactions", s.createTransaction)
	g.PUT("/transactions/:id", s.updateTransaction)
	g.DELETE("/transactions/:id", s.deleteTransaction)
	g.GET("/months/:month", s.month)
	g.POST("/months/:month/close", s.closeMonth)
	g.GET("/summaries", s.summaries)
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// statusOf maps book errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, capital.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, capital.ErrMonthClosed), errors.Is(err, capital.ErrClosedPeriod), errors.Is(err, capital.ErrDuplicateMonth):
		return http.StatusConflict
	case capital.IsValidation(err):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func ok(c *gin.Context, status int, data any, message string) {
	c.JSON(status, capital.OK(data, message))
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, capital.Failure(err))
}

func (s *Server) health(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"status": "ok"}, "")
}

type capitalResponse struct {
	InitialCapital capital.Money `json:"initialCapital"`
	WorkingMonth   date.Month    `json:"workingMonth"`
}

func (s *Server) getCapital(c *gin.Context) {
	ctx, owner := c.Request.Context(), c.Param("owner")
	initial, err := s.book.InitialCapital(ctx, owner)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	working, err := s.book.WorkingMonth(ctx, owner)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusOK, capitalResponse{InitialCapital: initial, WorkingMonth: working}, "")
}

func (s *Server) putCapital(c *gin.Context) {
	var v capital.Money
	if err := c.ShouldBindJSON(&v); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if err := s.book.SetInitialCapital(c.Request.Context(), c.Param("owner"), v); err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	s.getCapital(c)
}

// filter reads the type, asset and q query parameters. Repeated and comma
// separated values are both accepted.
func filter(c *gin.Context) (capital.Filter, error) {
	var f capital.Filter
	for _, v := range values(c.QueryArray("type")) {
		t, err := capital.ParseType(v)
		if err != nil {
			return f, err
		}
		f.Types = append(f.Types, t)
	}
	f.Assets = values(c.QueryArray("asset"))
	f.Search = strings.TrimSpace(c.Query("q"))
	return f, nil
}

func values(params []string) []string {
	var out []string
	for _, p := range params {
		for _, v := range strings.Split(p, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func (s *Server) listTransactions(c *gin.Context) {
	f, err := filter(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	txs, err := s.book.Transactions(c.Request.Context(), c.Param("owner"), f)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusOK, txs, "")
}

// transactionRequest is the body of a transaction create or update. The value
// is a pointer so that a missing one is told apart from zero.
type transactionRequest struct {
	ID            string           `json:"id"`
	Date          date.Date        `json:"date"`
	Type          string           `json:"type"`
	AmountPrimary decimal.Decimal  `json:"amountPrimary"`
	TotalValue    *decimal.Decimal `json:"totalValue"`
	Currency      string           `json:"currency"`
	FeeAmount     decimal.Decimal  `json:"feeAmount"`
	FeeUnit       string           `json:"feeUnit"`
	Asset         string           `json:"asset"`
	Memo          string           `json:"memo"`
	Client        string           `json:"client"`
	City          string           `json:"city"`
}

// bindTransaction decodes the request body, rejecting unknown fields and a
// missing totalValue. Type aliases like "buy" are accepted.
func bindTransaction(c *gin.Context) (capital.Transaction, error) {
	var req transactionRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return capital.Transaction{}, err
	}
	if req.TotalValue == nil {
		return capital.Transaction{}, errors.New("totalValue is missing")
	}
	// an unknown type is kept as is for Validate to reject
	typ, _ := capital.ParseType(req.Type)
	tx := capital.Transaction{
		ID:            req.ID,
		Date:          req.Date,
		Type:          typ,
		AmountPrimary: capital.Q(req.AmountPrimary),
		TotalValue:    capital.M(*req.TotalValue, req.Currency),
		Asset:         req.Asset,
		Memo:          req.Memo,
		Client:        req.Client,
		City:          req.City,
	}
	if !req.FeeAmount.IsZero() {
		tx = tx.WithFee(req.FeeAmount, req.FeeUnit)
	}
	return tx, nil
}

func (s *Server) createTransaction(c *gin.Context) {
	tx, err := bindTransaction(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	tx, err = s.book.Record(c.Request.Context(), c.Param("owner"), tx)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusCreated, tx, "transaction recorded")
}

func (s *Server) updateTransaction(c *gin.Context) {
	tx, err := bindTransaction(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	tx.ID = c.Param("id")
	tx, err = s.book.Update(c.Request.Context(), c.Param("owner"), tx)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusOK, tx, "transaction updated")
}

func (s *Server) deleteTransaction(c *gin.Context) {
	if err := s.book.Delete(c.Request.Context(), c.Param("owner"), c.Param("id")); err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusOK, nil, "transaction deleted")
}

func monthParam(c *gin.Context) (date.Month, error) {
	return date.ParseMonth(c.Param("month"))
}

func (s *Server) month(c *gin.Context) {
	m, err := monthParam(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	f, err := filter(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	v, err := s.book.MonthView(c.Request.Context(), c.Param("owner"), m, f)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusOK, v, "")
}

type closeResponse struct {
	Summary   capital.MonthSummary `json:"summary"`
	NextMonth date.Month           `json:"nextMonth"`
}

func (s *Server) closeMonth(c *gin.Context) {
	m, err := monthParam(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	sum, next, err := s.book.Close(c.Request.Context(), c.Param("owner"), m)
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusCreated, closeResponse{Summary: sum, NextMonth: next}, "month closed")
}

func (s *Server) summaries(c *gin.Context) {
	sums, err := s.book.Summaries(c.Request.Context(), c.Param("owner"))
	if err != nil {
		s.fail(c, statusOf(err), err)
		return
	}
	ok(c, http.StatusOK, sums, "")
}
