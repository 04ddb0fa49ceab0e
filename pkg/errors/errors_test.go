package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "order store unavailable", retryable: true, detailsOK: true},
		{code: CodeDelivery, status: http.StatusBadGateway, publicMsg: "report delivery failed", retryable: true, detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "query orders")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected cause to be preserved")
	}
	if typed := As(err); typed == nil || typed.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %v", typed)
	}
	if got := err.Error(); got != "DEPENDENCY_ERROR: query orders: connection refused" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(CodeDelivery, "sendgrid rejected message")
	if !Is(err, CodeDelivery) {
		t.Fatal("expected delivery code match")
	}
	if Is(err, CodeDependency) {
		t.Fatal("unexpected dependency code match")
	}
	if Is(nil, CodeDelivery) {
		t.Fatal("nil error should not match")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	cause := stdErrors.New("dial tcp: timeout")
	err := Wrap(CodeDependency, cause, "fetch qualifying orders")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}
