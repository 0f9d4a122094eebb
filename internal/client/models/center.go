package models

type Center struct {
	ID             int64  `json:"id"`
	AccountNo      string `json:"accountNo,omitempty"`
	ExternalID     string `json:"externalId,omitempty"`
	Name           string `json:"name"`
	OfficeID       int64  `json:"officeId"`
	OfficeName     string `json:"officeName,omitempty"`
	StaffID        int64  `json:"staffId,omitempty"`
	StaffName      string `json:"staffName,omitempty"`
	Active         bool   `json:"active"`
	Status         Status `json:"status"`
	ActivationDate []int  `json:"activationDate,omitempty"`
}

func (c Center) EntityID() int64 { return c.ID }

type CenterPayload struct {
	Name            string  `json:"name"`
	OfficeID        int64   `json:"officeId"`
	StaffID         int64   `json:"staffId,omitempty"`
	ExternalID      string  `json:"externalId,omitempty"`
	Active          bool    `json:"active"`
	ActivationDate  string  `json:"activationDate,omitempty"`
	SubmittedOnDate string  `json:"submittedOnDate,omitempty"`
	GroupMembers    []int64 `json:"groupMembers,omitempty"`
	DateFormat      string  `json:"dateFormat,omitempty"`
	Locale          string  `json:"locale,omitempty"`
}

func (p CenterPayload) ToEntity(id int64) Center {
	return Center{
		ID:         id,
		ExternalID: p.ExternalID,
		Name:       p.Name,
		OfficeID:   p.OfficeID,
		StaffID:    p.StaffID,
		Active:     p.Active,
	}
}

type CenterAccounts struct {
	LoanAccounts    []LoanAccount    `json:"loanAccounts"`
	SavingsAccounts []SavingsAccount `json:"savingsAccounts"`
}

type Group struct {
	ID        int64  `json:"id"`
	AccountNo string `json:"accountNo,omitempty"`
	Name      string `json:"name"`
	OfficeID  int64  `json:"officeId"`
	Active    bool   `json:"active"`
}

type Calendar struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   []int  `json:"startDate,omitempty"`
	Recurrence  string `json:"recurrence,omitempty"`
}

// CenterWithAssociations is a center with its member groups and, when
// requested, its collection meeting calendar.
type CenterWithAssociations struct {
	ID                        int64     `json:"id"`
	Name                      string    `json:"name"`
	OfficeID                  int64     `json:"officeId"`
	Active                    bool      `json:"active"`
	GroupMembers              []Group   `json:"groupMembers"`
	CollectionMeetingCalendar *Calendar `json:"collectionMeetingCalendar,omitempty"`
}
