package server

import (
	"errors"
	"net/http"
	"testing"

	authdomain "github.com/setucred/setucred/internal/auth/domain"
	beneficiarydomain "github.com/setucred/setucred/internal/beneficiary/domain"
	loandomain "github.com/setucred/setucred/internal/loan/domain"
	scoringdomain "github.com/setucred/setucred/internal/scoring/domain"
	"gorm.io/gorm"
)

func TestMapErrorStatusCodes(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"unauthorized sentinel", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"invalid credentials", authdomain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"invalid token", authdomain.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"duplicate user", authdomain.ErrUserExists, http.StatusConflict, "conflict"},
		{"conflict sentinel", ErrConflict, http.StatusConflict, "conflict"},
		{"beneficiary not found", beneficiarydomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"not scored yet", scoringdomain.ErrNotScoredYet, http.StatusNotFound, "not_found"},
		{"gorm record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"rate limited", ErrTooManyRequests, http.StatusTooManyRequests, "rate_limited"},
		{"beneficiary validation", beneficiarydomain.ErrInvalidName, http.StatusBadRequest, "validation_error"},
		{"loan validation", loandomain.ErrInvalidAmount, http.StatusBadRequest, "validation_error"},
		{"score precondition", loandomain.ErrScoreNotCalculated, http.StatusBadRequest, "validation_error"},
		{"auth validation", authdomain.ErrInvalidUsername, http.StatusBadRequest, "validation_error"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			if status != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, status)
			}
			if payload.Type != tc.wantType {
				t.Fatalf("expected type %q, got %q", tc.wantType, payload.Type)
			}
		})
	}
}

func TestMapErrorValidationDetails(t *testing.T) {
	_, payload := mapError(beneficiarydomain.ErrInvalidLoanAmount)
	if len(payload.Errors) != 1 {
		t.Fatalf("expected one validation entry, got %d", len(payload.Errors))
	}
	if payload.Errors[0].Field != "loan_amount" {
		t.Fatalf("expected field loan_amount, got %q", payload.Errors[0].Field)
	}
	if payload.Errors[0].Code != "invalid_loan_amount" {
		t.Fatalf("expected code invalid_loan_amount, got %q", payload.Errors[0].Code)
	}

	_, payload = mapError(loandomain.ErrScoreNotCalculated)
	if len(payload.Errors) != 1 {
		t.Fatalf("expected one validation entry, got %d", len(payload.Errors))
	}
	if payload.Errors[0].Code != "score_not_calculated" {
		t.Fatalf("expected code score_not_calculated, got %q", payload.Errors[0].Code)
	}
	if payload.Errors[0].Message != "credit score not calculated for this beneficiary" {
		t.Fatalf("unexpected message %q", payload.Errors[0].Message)
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	errType, code := classifyErrorForLog(beneficiarydomain.ErrInvalidAge)
	if errType != "validation_error" || code != "invalid_age" {
		t.Fatalf("expected validation_error/invalid_age, got %s/%s", errType, code)
	}

	errType, code = classifyErrorForLog(ErrUnauthorized)
	if errType != "unauthorized" || code != "unauthorized" {
		t.Fatalf("expected unauthorized/unauthorized, got %s/%s", errType, code)
	}
}
