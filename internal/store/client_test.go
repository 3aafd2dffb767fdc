package store

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hnazzal/AI-Invoice-Extractor-sub000/internal/entity"
)

// capture records one request seen by a fake store endpoint.
type capture struct {
	method  string
	path    string
	query   string
	headers http.Header
	body    []byte
}

func newFakeStore(handler func(c capture, w http.ResponseWriter)) (*httptest.Server, *[]capture) {
	var seen []capture
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c := capture{
			method:  r.Method,
			path:    r.URL.Path,
			query:   r.URL.RawQuery,
			headers: r.Header.Clone(),
			body:    body,
		}
		seen = append(seen, c)
		handler(c, w)
	}))
	return srv, &seen
}

func TestSignInMapsIdentity(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.Write([]byte(`{
			"access_token": "tok-123",
			"user": {"id": "u-1", "email": "a@b.co", "user_metadata": {"company": "Acme", "role": "admin"}}
		}`))
	})
	defer srv.Close()

	cl := New(srv.URL, "anon-key", 5*time.Second, nil)
	user, err := cl.SignIn(context.Background(), "a@b.co", "secret")
	require.NoError(t, err)

	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "a@b.co", user.Email)
	assert.Equal(t, "tok-123", user.Token)
	assert.Equal(t, "Acme", user.Company)
	assert.True(t, user.IsAdmin())

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "/auth/token", req.path)
	assert.Equal(t, "grant_type=password", req.query)
	assert.Equal(t, "anon-key", req.headers.Get("apikey"))
	assert.Empty(t, req.headers.Get("Authorization"))
}

func TestSignInRequiresToken(t *testing.T) {
	srv, _ := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.Write([]byte(`{"user": {"id": "u-1"}}`))
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	_, err := cl.SignIn(context.Background(), "a@b.co", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
}

func TestSignUpCarriesCompanyMetadata(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.Write([]byte(`{}`))
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	require.NoError(t, cl.SignUp(context.Background(), "a@b.co", "secret", "Acme"))

	require.Len(t, *seen, 1)
	var body map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0].body, &body))
	assert.Equal(t, "a@b.co", body["email"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", data["company"])
}

func TestRemoteErrorMessagePassthrough(t *testing.T) {
	srv, _ := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "Invalid login credentials"}`))
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	_, err := cl.SignIn(context.Background(), "a@b.co", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestRemoteErrorStatusFallback(t *testing.T) {
	srv, _ := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	_, err := cl.ListInvoices(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDoTrimsTrailingSlash(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	cl := New(srv.URL+"/", "k", 5*time.Second, nil)
	_, err := cl.ListInvoices(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, *seen, 1)
	assert.Equal(t, "/invoices", (*seen)[0].path)
	assert.Equal(t, "Bearer tok", (*seen)[0].headers.Get("Authorization"))
}

func user() entity.User {
	return entity.User{ID: "u-1", Email: "a@b.co", Company: "Acme", Token: "tok"}
}

func sampleInvoice() entity.Invoice {
	return entity.Invoice{
		InvoiceNumber: "INV-1",
		VendorName:    "Acme",
		InvoiceDate:   "03/15/2024",
		TotalAmount:   21,
		PaymentStatus: entity.PaymentStatusUnpaid,
		Items: []entity.InvoiceItem{
			{Description: "Widget", Quantity: 2, UnitPrice: 10.5, Total: 21},
		},
	}
}

func TestCreateInvoiceTwoPhase(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	saved, err := cl.CreateInvoice(context.Background(), user(), sampleInvoice())
	require.NoError(t, err)

	require.Len(t, *seen, 2)
	header, items := (*seen)[0], (*seen)[1]

	assert.Equal(t, http.MethodPost, header.method)
	assert.Equal(t, "/invoices", header.path)
	assert.Equal(t, "return=minimal", header.headers.Get("Prefer"))
	var hrow map[string]any
	require.NoError(t, json.Unmarshal(header.body, &hrow))
	assert.Equal(t, "2024-03-15", hrow["invoice_date"])
	assert.Equal(t, "a@b.co", hrow["uploader_email"])
	headerID, _ := hrow["id"].(string)
	require.NotEmpty(t, headerID)

	assert.Equal(t, "/invoice_items", items.path)
	var irows []map[string]any
	require.NoError(t, json.Unmarshal(items.body, &irows))
	require.Len(t, irows, 1)
	assert.Equal(t, headerID, irows[0]["invoice_id"])
	assert.Equal(t, "Widget", irows[0]["description"])

	assert.Equal(t, headerID, saved.ID)
	assert.Empty(t, saved.TempID)
	assert.Equal(t, "2024-03-15", saved.InvoiceDate)
	assert.Equal(t, "a@b.co", saved.UploaderEmail)
}

func TestCreateInvoiceBadDateFailsBeforeAnyRequest(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	inv := sampleInvoice()
	inv.InvoiceDate = "whenever"
	_, err := cl.CreateInvoice(context.Background(), user(), inv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrBadDate))
	assert.Empty(t, *seen)
}

func TestCreateInvoiceCompensatesOnItemFailure(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		if c.path == "/invoice_items" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"message": "duplicate key"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	_, err := cl.CreateInvoice(context.Background(), user(), sampleInvoice())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")

	require.Len(t, *seen, 3)
	comp := (*seen)[2]
	assert.Equal(t, http.MethodDelete, comp.method)
	assert.Equal(t, "/invoices", comp.path)
	assert.Contains(t, comp.query, "id=eq.")
}

func TestListInvoicesMapsRows(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.Write([]byte(`[
			{
				"id": "i-1", "invoice_number": "INV-1", "vendor_name": "Acme",
				"invoice_date": "2024-03-15", "total_amount": 21, "payment_status": "unpaid",
				"file_base64": "QUJD", "file_mime_type": "image/jpeg",
				"invoice_items": [
					{"invoice_id": "i-1", "description": "Widget", "quantity": 2, "unit_price": 10.5, "total": 21}
				]
			},
			{"id": "i-2", "invoice_number": "INV-2", "vendor_name": "Globex",
			 "invoice_date": "2024-03-10", "total_amount": 5, "payment_status": "paid"}
		]`))
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	invoices, err := cl.ListInvoices(context.Background(), "tok")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	q := (*seen)[0].query
	assert.Contains(t, q, "order=created_at.desc")
	assert.Contains(t, q, "invoice_items")

	require.Len(t, invoices, 2)
	first := invoices[0]
	assert.Equal(t, "i-1", first.ID)
	require.Len(t, first.Items, 1)
	assert.Equal(t, 10.5, first.Items[0].UnitPrice)
	require.NotNil(t, first.Source)
	assert.Equal(t, "QUJD", first.Source.Base64)
	assert.Equal(t, entity.PaymentStatusPaid, invoices[1].PaymentStatus)
	assert.Nil(t, invoices[1].Source)
	assert.Empty(t, invoices[1].Items)
}

func TestUpdatePaymentStatus(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	require.NoError(t, cl.UpdatePaymentStatus(context.Background(), "tok", "i-1", entity.PaymentStatusPaid))

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPatch, req.method)
	assert.Equal(t, "id=eq.i-1", req.query)
	var body map[string]string
	require.NoError(t, json.Unmarshal(req.body, &body))
	assert.Equal(t, "paid", body["payment_status"])
}

func TestAttachSourceFile(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)
	src := entity.SourceFile{Base64: "QUJD", MimeType: "application/pdf"}
	require.NoError(t, cl.AttachSourceFile(context.Background(), "tok", "i-1", src))

	var body map[string]string
	require.NoError(t, json.Unmarshal((*seen)[0].body, &body))
	assert.Equal(t, "QUJD", body["file_base64"])
	assert.Equal(t, "application/pdf", body["file_mime_type"])
}

func TestDeleteInvoicesFilters(t *testing.T) {
	srv, seen := newFakeStore(func(c capture, w http.ResponseWriter) {
		w.WriteHeader(http.StatusNoContent)
	})
	defer srv.Close()

	cl := New(srv.URL, "k", 5*time.Second, nil)

	require.NoError(t, cl.DeleteInvoices(context.Background(), "tok", "i-1"))
	require.NoError(t, cl.DeleteInvoices(context.Background(), "tok", "i-1", "i-2"))
	require.NoError(t, cl.DeleteInvoices(context.Background(), "tok"))

	require.Len(t, *seen, 2)
	assert.Equal(t, "id=eq.i-1", (*seen)[0].query)
	assert.Equal(t, "id=in.(i-1,i-2)", (*seen)[1].query)
}
