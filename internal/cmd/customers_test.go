package cmd

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomersListFilters(t *testing.T) {
	handler := newRouteHandler().On("GET", "/customers", jsonResponse(200, `{
		"_embedded":{"customers":[{"id":1,"firstName":"Jane","lastName":"Doe","photoUrl":"http://x",
			"emails":[{"id":9,"value":"jane@example.com","type":"work"}],"phones":[]}]},
		"page":{"size":50,"totalElements":51,"totalPages":2,"number":2}}`))
	setupTestEnvWithHandler(t, handler)

	out, err := runCLI(t, "customers", "list", "--first-name", "Jane", "--page", "2",
		"--created-before", "2025-03-01", "-q", `email:"jane@example.com"`)
	require.NoError(t, err)

	reqs := handler.requestsTo("GET", "/customers")
	require.Len(t, reqs, 1)
	q := reqs[0].Query
	assert.Equal(t, "Jane", q["firstName"][0])
	assert.Equal(t, "2", q["page"][0])
	assert.Equal(t, `(email:"jane@example.com" AND createdAt:[* TO 2025-03-01T00:00:00Z])`, q["query"][0])
	assert.NotContains(t, q, "lastName")

	doc := decodeJSON(t, out)
	customer := doc["customers"].([]any)[0].(map[string]any)
	assert.NotContains(t, customer, "photoUrl")
	assert.NotContains(t, customer, "phones")
}

func TestCustomersCreate(t *testing.T) {
	handler := newRouteHandler().On("POST", "/customers", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Resource-ID", "321")
		w.WriteHeader(http.StatusCreated)
	})
	setupTestEnvWithHandler(t, handler)

	out, err := runCLI(t, "customers", "create", "--first-name", "Jane", "--email", "jane@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Customer created","id":321}`, out)

	reqs := handler.requestsTo("POST", "/customers")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"firstName":"Jane","emails":[{"value":"jane@example.com","type":"work"}]}`, string(reqs[0].Body))
}

func TestCustomersCreateRequiresField(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	out, err := runCLI(t, "customers", "create")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Equal(t, "Customer create requires at least one field", decodeEnvelope(t, out).Error.Detail)
	assert.Equal(t, 0, handler.total())
}

func TestCustomersUpdate(t *testing.T) {
	handler := newRouteHandler().On("PUT", "/customers/5", jsonResponse(204, ``))
	setupTestEnvWithHandler(t, handler)

	out, err := runCLI(t, "customers", "update", "5")
	require.Error(t, err)
	assert.Equal(t, "Customer update requires at least one field to update", decodeEnvelope(t, out).Error.Detail)
	assert.Empty(t, handler.requestsTo("PUT", "/customers/5"))

	out, err = runCLI(t, "customers", "update", "5", "--job-title", "CTO", "--organization", "Acme")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Customer updated"}`, out)

	reqs := handler.requestsTo("PUT", "/customers/5")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"jobTitle":"CTO","organization":"Acme"}`, string(reqs[0].Body))
}

func TestCustomersDelete(t *testing.T) {
	handler := newRouteHandler().On("DELETE", "/customers/5", jsonResponse(204, ``))
	setupTestEnvWithHandler(t, handler)

	_, err := runCLI(t, "customers", "delete", "5")
	require.Error(t, err)
	assert.Equal(t, 0, handler.total())

	out, err := runCLI(t, "customers", "rm", "5", "-y")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Customer deleted"}`, out)
}

func TestCustomersViewForbidden(t *testing.T) {
	handler := newRouteHandler().On("GET", "/customers/5", jsonResponse(403, `{"message":"Access denied"}`))
	setupTestEnvWithHandler(t, handler)

	out, err := runCLI(t, "customers", "view", "5")
	require.Error(t, err)
	assert.Equal(t, exitForbidden, ExitCode(err))
	assert.Equal(t, 403, decodeEnvelope(t, out).Error.StatusCode)
}

func TestCustomersCreateValidatesInput(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)

	out, err := runCLI(t, "customers", "create", "--email", "not-an-email")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
	assert.Equal(t, `invalid email address "not-an-email"`, decodeEnvelope(t, out).Error.Detail)

	_, err = runCLI(t, "customers", "create", "--first-name", "Jane", "--phone", "call me")
	require.Error(t, err)
	assert.Equal(t, 0, handler.total())
}
