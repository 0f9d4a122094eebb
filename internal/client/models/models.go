// Package models defines the entities, payloads and envelopes exchanged
// between the fieldsync client, its local cache and the remote service.
// JSON field names follow the remote API.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// EntityType tags cache rows and pending records.
type EntityType string

const (
	EntityClient EntityType = "client"
	EntityCenter EntityType = "center"
	EntityOffice EntityType = "office"
	EntitySurvey EntityType = "survey"
)

// EntityTypes lists every routed entity type.
var EntityTypes = []EntityType{EntityClient, EntityCenter, EntityOffice, EntitySurvey}

func ParseEntityType(s string) (EntityType, error) {
	for _, t := range EntityTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrorUnknownEntity, s)
}

// DocumentKind names a keyed aggregate kept next to the entity rows.
type DocumentKind string

const (
	DocClientAccounts     DocumentKind = "client_accounts"
	DocCenterAccounts     DocumentKind = "center_accounts"
	DocClientTemplate     DocumentKind = "client_template"
	DocCenterAssociations DocumentKind = "center_associations"
	DocSurveyQuestions    DocumentKind = "survey_questions"
	DocQuestionResponses  DocumentKind = "question_responses"
)

// Page is one page of a listing. The zero Page is the "no data" result.
type Page[T any] struct {
	TotalFilteredRecords int `json:"totalFilteredRecords"`
	PageItems            []T `json:"pageItems"`
}

func (p Page[T]) IsEmpty() bool {
	return len(p.PageItems) == 0
}

// NewPage wraps a complete collection into a Page.
func NewPage[T any](items []T) Page[T] {
	return Page[T]{TotalFilteredRecords: len(items), PageItems: items}
}

// PendingRecord is a creation made while offline, waiting to be replayed.
type PendingRecord[P any] struct {
	LocalID        int64
	EntityType     EntityType
	Payload        P
	IdempotencyKey string
	CreatedAt      time.Time
}

// SaveResponse is the result of a create call. Pending results are
// synthesized locally for queued creations and carry only LocalID.
type SaveResponse struct {
	OfficeID   int64 `json:"officeId,omitempty"`
	ClientID   int64 `json:"clientId,omitempty"`
	GroupID    int64 `json:"groupId,omitempty"`
	ResourceID int64 `json:"resourceId,omitempty"`

	LocalID int64 `json:"localId,omitempty"`
	Pending bool  `json:"pending,omitempty"`
}

// GenericResponse is returned by status updates and sub-resource commands.
type GenericResponse struct {
	ResourceID int64          `json:"resourceId,omitempty"`
	Changes    map[string]any `json:"changes,omitempty"`
}

// ActivatePayload moves a client or center to the active status.
type ActivatePayload struct {
	ActivationDate string `json:"activationDate"`
	DateFormat     string `json:"dateFormat"`
	Locale         string `json:"locale"`
}

type Option struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Status struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Value string `json:"value"`
}

type Staff struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	OfficeID    int64  `json:"officeId"`
}

type LoanAccount struct {
	ID          int64   `json:"id"`
	AccountNo   string  `json:"accountNo"`
	ProductName string  `json:"productName"`
	Status      Status  `json:"status"`
	LoanBalance float64 `json:"loanBalance"`
	AmountPaid  float64 `json:"amountPaid"`
	InArrears   bool    `json:"inArrears"`
	LoanCycle   int     `json:"loanCycle"`
}

type SavingsAccount struct {
	ID             int64   `json:"id"`
	AccountNo      string  `json:"accountNo"`
	ProductName    string  `json:"productName"`
	Status         Status  `json:"status"`
	AccountBalance float64 `json:"accountBalance"`
	DepositType    Option  `json:"depositType"`
}
