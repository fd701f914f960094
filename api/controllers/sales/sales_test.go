package sales

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bleupos/sales-service/api/middleware"
	internalsales "github.com/bleupos/sales-service/internal/sales"
	"github.com/bleupos/sales-service/pkg/enums"
	pkgerrors "github.com/bleupos/sales-service/pkg/errors"
)

type stubSalesService struct {
	gotActor    internalsales.Actor
	gotSale     internalsales.CreateSaleRequest
	gotExternal internalsales.ExternalOrderRequest
	result      *internalsales.SaleResult
	err         error
}

func (s *stubSalesService) CreateSale(_ context.Context, actor internalsales.Actor, req internalsales.CreateSaleRequest) (*internalsales.SaleResult, error) {
	s.gotActor, s.gotSale = actor, req
	return s.result, s.err
}

func (s *stubSalesService) SaveExternalOrder(_ context.Context, actor internalsales.Actor, req internalsales.ExternalOrderRequest) (*internalsales.SaleResult, error) {
	s.gotActor, s.gotExternal = actor, req
	return s.result, s.err
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(middleware.WithPrincipal(req.Context(), "ana", enums.RoleCashier, "jwt"))
}

func TestCreateReturnsCreatedWithTotals(t *testing.T) {
	svc := &stubSalesService{result: &internalsales.SaleResult{SaleID: 9, Subtotal: 250, DiscountAmount: 10, FinalTotal: 240}}
	body := `{"cartItems":[{"name":"Latte","quantity":2,"price":"100.00","category":"Coffee","addons":{"espressoShots":1}}],"orderType":"Dine-In","paymentMethod":"Cash","appliedDiscounts":["Senior"]}`

	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/auth/sales", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data internalsales.SaleResult `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SaleID != 9 || envelope.Data.FinalTotal != 240 {
		t.Fatalf("unexpected result %+v", envelope.Data)
	}
	if svc.gotActor.Username != "ana" || svc.gotActor.Token != "jwt" || svc.gotActor.Role != enums.RoleCashier {
		t.Fatalf("actor not taken from context: %+v", svc.gotActor)
	}
	if svc.gotSale.CartItems[0].Price.String() != "100.00" || svc.gotSale.CartItems[0].Addons["espressoShots"] != 1 {
		t.Fatalf("cart item not decoded: %+v", svc.gotSale.CartItems[0])
	}
}

func TestCreateRejectsEmptyCartBeforeService(t *testing.T) {
	svc := &stubSalesService{}
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/auth/sales", `{"cartItems":[],"orderType":"Dine-In","paymentMethod":"Cash"}`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.gotActor.Username != "" {
		t.Fatal("service must not be called for an invalid body")
	}
}

func TestCreateMapsServiceErrors(t *testing.T) {
	svc := &stubSalesService{err: pkgerrors.New(pkgerrors.CodeSaleCreationFailed, "sale header not persisted")}
	body := `{"cartItems":[{"name":"Latte","quantity":1,"price":100}],"orderType":"Dine-In","paymentMethod":"Cash"}`

	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/auth/sales", body))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), string(pkgerrors.CodeSaleCreationFailed)) {
		t.Fatalf("expected sale creation code in body, got %s", resp.Body.String())
	}
}

func TestSaveExternalDecodesOnlinePayload(t *testing.T) {
	svc := &stubSalesService{result: &internalsales.SaleResult{SaleID: 4, Subtotal: 300, FinalTotal: 300}}
	body := `{"onlineOrderId":"WEB-77","cartItems":[{"name":"Mocha","quantity":2,"price":150}],"orderType":"Delivery","paymentMethod":"GCash","totalAmount":300,"cashierName":"web"}`

	resp := httptest.NewRecorder()
	SaveExternal(svc, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/auth/purchase_orders/online", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotExternal.OnlineOrderID != "WEB-77" || svc.gotExternal.TotalAmount.String() != "300" {
		t.Fatalf("external order not decoded: %+v", svc.gotExternal)
	}
}

func TestSaveExternalRequiresOnlineOrderID(t *testing.T) {
	resp := httptest.NewRecorder()
	body := `{"cartItems":[{"name":"Mocha","quantity":1,"price":150}],"orderType":"Delivery","paymentMethod":"GCash","totalAmount":150}`
	SaveExternal(&stubSalesService{}, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/auth/purchase_orders/online", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "onlineOrderId") {
		t.Fatalf("expected field name in details, got %s", resp.Body.String())
	}
}

func TestCreateWithoutServiceIsInternalError(t *testing.T) {
	resp := httptest.NewRecorder()
	Create(nil, nil).ServeHTTP(resp, authedRequest(http.MethodPost, "/auth/sales", `{}`))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
