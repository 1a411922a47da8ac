package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)

	recorder := env.do(t, "GET", "/api/v1/products", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	var products []ProductDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, "10.00", products[0].Price)
}

func TestListProducts_FilterByName(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)

	recorder := env.do(t, "GET", "/api/v1/products?q=widget", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	var products []ProductDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &products))
	require.Len(t, products, 2)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, "Blue Widget", products[1].Name)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)

	recorder := env.do(t, "GET", "/api/v1/products/3", "")

	require.Equal(t, http.StatusOK, recorder.Code)
	var product ProductDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &product))
	assert.Equal(t, "Gadget", product.Name)
	assert.Equal(t, "3.99", product.Price)
	assert.Equal(t, 0, product.Stock)
}

func TestGetProduct_Unknown(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)

	recorder := env.do(t, "GET", "/api/v1/products/99", "")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCreateProduct_RequiresLogin(t *testing.T) {
	env := newTestEnv(t, regularUser(), false)

	recorder := env.do(t, "POST", "/api/v1/products", `{"name": "New", "price": 5, "stock": 10}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t, regularUser(), true)

	recorder := env.do(t, "POST", "/api/v1/products", `{"name": "New", "price": 5, "stock": 10}`)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestCreateProduct_AsAdmin(t *testing.T) {
	env := newTestEnv(t, adminUser(), true)

	recorder := env.do(t, "POST", "/api/v1/products", `{"name": "New", "price": 5.50, "stock": 10}`)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var resp CreateProductResponseDTO
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.ID)
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t, adminUser(), true)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"price": 5, "stock": 10}`},
		{"negative price", `{"name": "New", "price": -1, "stock": 10}`},
		{"negative stock", `{"name": "New", "price": 5, "stock": -2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := env.do(t, "POST", "/api/v1/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestUpdateProduct_AsAdmin(t *testing.T) {
	env := newTestEnv(t, adminUser(), true)

	recorder := env.do(t, "PUT", "/api/v1/products/1", `{"name": "Widget v2", "price": 11, "stock": 4}`)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestDeleteProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t, regularUser(), true)

	recorder := env.do(t, "DELETE", "/api/v1/products/1", "")

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
