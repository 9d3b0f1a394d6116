package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/application/fulfillment"
	"storefront/internal/application/reporting"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/infrastructure/trends"
	"storefront/internal/pkg/logging"
)

// Handler adapts HTTP to the fulfillment engine's capability calls. It is an
// embedding surface only; every invariant lives behind the engine.
type Handler struct {
	fulfillment *fulfillment.Service
	catalog     catalog.Repository
	orders      order.Repository
	reports     *reporting.Engine
	trends      *trends.Client
	log         *zap.Logger
}

// NewHandler wires the routes. trendsClient may be nil, in which case the
// trends route is not mounted.
func NewHandler(
	svc *fulfillment.Service,
	catalogRepo catalog.Repository,
	orderRepo order.Repository,
	reports *reporting.Engine,
	trendsClient *trends.Client,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{
		fulfillment: svc,
		catalog:     catalogRepo,
		orders:      orderRepo,
		reports:     reports,
		trends:      trendsClient,
		log:         logger,
	}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.withLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.handlePlaceOrder)
		r.Get("/{orderID}", h.handleGetOrder)
		r.Post("/{orderID}/ship", h.handleShipOrder)
		r.Post("/{orderID}/cancel", h.handleCancelOrder)
	})

	r.Get("/products", h.handleListProducts)
	r.Get("/reports/sales", h.handleSalesReport)
	r.Get("/reports/inventory.csv", h.handleInventoryCSV)
	if h.trends != nil {
		r.Get("/trends/{category}", h.handleCategoryTrend)
	}

	return r
}

// withLogger puts a request-scoped logger into the context so downstream
// components log with the request id attached.
func (h *Handler) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := h.log.With(zap.String("request_id", middleware.GetReqID(r.Context())))
		next.ServeHTTP(w, r.WithContext(logging.ContextWithLogger(r.Context(), logger)))
	})
}

type lineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type placeOrderRequest struct {
	CustomerID string        `json:"customer_id"`
	Lines      []lineRequest `json:"lines"`
}

type orderLineResponse struct {
	ProductID int    `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type orderResponse struct {
	OrderID    int64               `json:"order_id"`
	CustomerID string              `json:"customer_id"`
	Lines      []orderLineResponse `json:"lines"`
	Total      string              `json:"total"`
	Status     order.Status        `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
		})
	}
	return orderResponse{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Lines:      lines,
		Total:      o.Total.StringFixed(2),
		Status:     o.Status,
		CreatedAt:  o.CreatedAt,
	}
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	lines := make([]fulfillment.LineRequest, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, fulfillment.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	created, err := h.fulfillment.PlaceOrder(r.Context(), req.CustomerID, lines)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(created))
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	o, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type transitionResponse struct {
	OrderID int64 `json:"order_id"`
	Done    bool  `json:"done"`
}

func (h *Handler) handleShipOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ok, err := h.fulfillment.ShipOrder(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, status, transitionResponse{OrderID: id, Done: ok})
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req cancelOrderRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	ok, err := h.fulfillment.CancelOrder(r.Context(), id, req.Reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, status, transitionResponse{OrderID: id, Done: ok})
}

type productResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	Stock    int    `json:"stock"`
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.StringFixed(2),
			Category: p.Category,
			Stock:    p.Stock,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	from, to := reportPeriod(r)
	report, err := h.reports.SalesReport(r.Context(), from, to, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report))
}

func (h *Handler) handleInventoryCSV(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.InventoryAuditCSV(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (h *Handler) handleCategoryTrend(w http.ResponseWriter, r *http.Request) {
	body, err := h.trends.CategoryTrend(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func reportPeriod(r *http.Request) (time.Time, time.Time) {
	now := time.Now().UTC()
	from := now.AddDate(0, -1, 0)
	to := now
	if v := r.URL.Query().Get("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t
		}
	}
	return from, to
}

func orderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	var insufficient *fulfillment.InsufficientStockError
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &insufficient):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, fulfillment.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, err)
	case errors.Is(err, fulfillment.ErrEmptyOrder), errors.Is(err, order.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
