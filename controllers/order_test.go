package controllers

import (
	"net/http"
	"testing"
	"time"

	"tailorpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_SequentialNumbers(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")

	first := createTestOrder(t, r, customer.ID, 5000, 1000)
	second := createTestOrder(t, r, customer.ID, 8000, 0)

	assert.Equal(t, "ORD-00001", first["orderNumber"])
	assert.Equal(t, "ORD-00002", second["orderNumber"])
}

func TestCreateOrder_DeliveryBeforeBooking(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")

	rec := performRequest(r, "POST", "/api/orders", map[string]interface{}{
		"customerId":   customer.ID,
		"bookingDate":  time.Now().Format(time.RFC3339),
		"deliveryDate": time.Now().AddDate(0, 0, -3).Format(time.RFC3339),
		"totalAmount":  5000,
		"items":        []map[string]interface{}{{"orderType": "barat"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Delivery date")
}

func TestCreateOrder_AdvanceExceedsTotal(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")

	rec := performRequest(r, "POST", "/api/orders", map[string]interface{}{
		"customerId":   customer.ID,
		"deliveryDate": time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"totalAmount":  20000,
		"advancePaid":  21000,
		"items":        []map[string]interface{}{{"orderType": "wallima"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Advance paid cannot exceed total amount")
}

func TestCreateOrder_DuplicateItemType(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")

	rec := performRequest(r, "POST", "/api/orders", map[string]interface{}{
		"customerId":   customer.ID,
		"deliveryDate": time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"totalAmount":  5000,
		"items": []map[string]interface{}{
			{"orderType": "barat", "description": "Sherwani"},
			{"orderType": "barat", "description": "Second sherwani"},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Duplicate order item type")
}

func TestCreateOrder_TooManyItems(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")

	rec := performRequest(r, "POST", "/api/orders", map[string]interface{}{
		"customerId":   customer.ID,
		"deliveryDate": time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"totalAmount":  5000,
		"items": []map[string]interface{}{
			{"orderType": "nikkah"},
			{"orderType": "mehndi"},
			{"orderType": "barat"},
			{"orderType": "wallima"},
			{"orderType": "other"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrder_UnknownItemType(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")

	rec := performRequest(r, "POST", "/api/orders", map[string]interface{}{
		"customerId":   customer.ID,
		"deliveryDate": time.Now().AddDate(0, 0, 7).Format(time.RFC3339),
		"totalAmount":  5000,
		"items":        []map[string]interface{}{{"orderType": "birthday"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_BalanceFromLedger(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	order := createTestOrder(t, r, customer.ID, 1000, 400)
	orderID := order["id"].(string)

	for i := 0; i < 2; i++ {
		rec := performRequest(r, "POST", "/api/payments", map[string]interface{}{
			"orderId":       orderID,
			"amount":        300,
			"paymentMethod": "Cash",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := performRequest(r, "GET", "/api/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)

	assert.Equal(t, float64(0), fetched["balance"])
	assert.Len(t, fetched["payments"], 2)
}

func TestUpdateOrder_KeepsNumberAndRevalidates(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	order := createTestOrder(t, r, customer.ID, 5000, 1000)
	orderID := order["id"].(string)

	rec := performRequest(r, "PATCH", "/api/orders/"+orderID, map[string]interface{}{
		"totalAmount": 6000,
		"comments":    "Extra embroidery on the sleeves",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody(t, rec)

	assert.Equal(t, order["orderNumber"], updated["orderNumber"])
	assert.Equal(t, float64(5000), updated["balance"])

	// Advance above the new total must be rejected.
	rec = performRequest(r, "PATCH", "/api/orders/"+orderID, map[string]interface{}{
		"advancePaid": 7000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrder_AmountsBelowLedgerRejected(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	order := createTestOrder(t, r, customer.ID, 1000, 0)
	orderID := order["id"].(string)

	rec := performRequest(r, "POST", "/api/payments", map[string]interface{}{
		"orderId":       orderID,
		"amount":        600,
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Shrinking the total below money already received must fail.
	rec = performRequest(r, "PATCH", "/api/orders/"+orderID, map[string]interface{}{
		"totalAmount": 500,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "Recorded payments")

	// Raising the advance past total minus ledger must fail too.
	rec = performRequest(r, "PATCH", "/api/orders/"+orderID, map[string]interface{}{
		"advancePaid": 500,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var stored models.Order
	require.NoError(t, db.Where("id = ?", orderID).First(&stored).Error)
	assert.Equal(t, float64(1000), stored.TotalAmount)
	assert.Equal(t, float64(400), stored.Balance)
}

func TestUpdateOrder_ReassignMovesPayments(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	ahmed := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	bilal := createTestCustomer(t, db, "Bilal Ahmed", "+923007654321")

	order := createTestOrder(t, r, ahmed.ID, 1000, 0)
	orderID := order["id"].(string)

	rec := performRequest(r, "POST", "/api/payments", map[string]interface{}{
		"orderId":       orderID,
		"amount":        600,
		"paymentMethod": "Cash",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = performRequest(r, "PATCH", "/api/orders/"+orderID, map[string]interface{}{
		"customerId": bilal.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = performRequest(r, "GET", "/api/payments?customer_id="+bilal.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 1)

	rec = performRequest(r, "GET", "/api/payments?customer_id="+ahmed.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["data"], 0)
}

func TestGetOrders_FilterByStatusAndCustomer(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	ahmed := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	bilal := createTestCustomer(t, db, "Bilal Ahmed", "+923007654321")

	createTestOrder(t, r, ahmed.ID, 5000, 0)
	order := createTestOrder(t, r, bilal.ID, 8000, 0)

	rec := performRequest(r, "PATCH", "/api/orders/"+order["id"].(string), map[string]interface{}{
		"status": models.OrderStatusDelivered,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(r, "GET", "/api/orders?status=Delivered", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["data"], 1)

	rec = performRequest(r, "GET", "/api/orders?customer_id="+ahmed.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["data"], 1)
}

func TestGetOrders_SearchByNumber(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	createTestOrder(t, r, customer.ID, 5000, 0)
	createTestOrder(t, r, customer.ID, 8000, 0)

	rec := performRequest(r, "GET", "/api/orders?q=ORD-00002", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	row := data[0].(map[string]interface{})
	assert.Equal(t, "ORD-00002", row["orderNumber"])
}

func TestDeleteOrder(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter()

	customer := createTestCustomer(t, db, "Ahmed Khan", "+923001234567")
	order := createTestOrder(t, r, customer.ID, 5000, 0)

	rec := performRequest(r, "DELETE", "/api/orders/"+order["id"].(string), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(r, "GET", "/api/orders/"+order["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
