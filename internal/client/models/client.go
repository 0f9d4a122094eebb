package models

type Client struct {
	ID             int64  `json:"id"`
	AccountNo      string `json:"accountNo,omitempty"`
	ExternalID     string `json:"externalId,omitempty"`
	DisplayName    string `json:"displayName"`
	Firstname      string `json:"firstname,omitempty"`
	Middlename     string `json:"middlename,omitempty"`
	Lastname       string `json:"lastname,omitempty"`
	MobileNo       string `json:"mobileNo,omitempty"`
	OfficeID       int64  `json:"officeId"`
	OfficeName     string `json:"officeName,omitempty"`
	StaffID        int64  `json:"staffId,omitempty"`
	Active         bool   `json:"active"`
	Status         Status `json:"status"`
	ActivationDate []int  `json:"activationDate,omitempty"`
}

func (c Client) EntityID() int64 { return c.ID }

// ClientPayload is the body of a client creation.
type ClientPayload struct {
	OfficeID               int64  `json:"officeId"`
	StaffID                int64  `json:"staffId,omitempty"`
	Firstname              string `json:"firstname"`
	Middlename             string `json:"middlename,omitempty"`
	Lastname               string `json:"lastname"`
	ExternalID             string `json:"externalId,omitempty"`
	MobileNo               string `json:"mobileNo,omitempty"`
	GenderID               int64  `json:"genderId,omitempty"`
	ClientTypeID           int64  `json:"clientTypeId,omitempty"`
	ClientClassificationID int64  `json:"clientClassificationId,omitempty"`
	Active                 bool   `json:"active"`
	ActivationDate         string `json:"activationDate,omitempty"`
	SubmittedOnDate        string `json:"submittedOnDate,omitempty"`
	DateFormat             string `json:"dateFormat,omitempty"`
	Locale                 string `json:"locale,omitempty"`
}

// ToEntity builds the cache row for a payload the remote accepted as id.
func (p ClientPayload) ToEntity(id int64) Client {
	display := p.Firstname
	if p.Lastname != "" {
		if display != "" {
			display += " "
		}
		display += p.Lastname
	}
	return Client{
		ID:          id,
		ExternalID:  p.ExternalID,
		DisplayName: display,
		Firstname:   p.Firstname,
		Middlename:  p.Middlename,
		Lastname:    p.Lastname,
		MobileNo:    p.MobileNo,
		OfficeID:    p.OfficeID,
		StaffID:     p.StaffID,
		Active:      p.Active,
	}
}

type ClientAccounts struct {
	LoanAccounts    []LoanAccount    `json:"loanAccounts"`
	SavingsAccounts []SavingsAccount `json:"savingsAccounts"`
}

type ClientsTemplate struct {
	OfficeID                    int64    `json:"officeId"`
	OfficeOptions               []Office `json:"officeOptions"`
	StaffOptions                []Staff  `json:"staffOptions"`
	GenderOptions               []Option `json:"genderOptions"`
	ClientTypeOptions           []Option `json:"clientTypeOptions"`
	ClientClassificationOptions []Option `json:"clientClassificationOptions"`
	SavingProductOptions        []Option `json:"savingProductOptions"`
}

type Identifier struct {
	ID           int64  `json:"id"`
	ClientID     int64  `json:"clientId"`
	DocumentKey  string `json:"documentKey"`
	Description  string `json:"description,omitempty"`
	DocumentType Option `json:"documentType"`
	Status       string `json:"status,omitempty"`
}

type IdentifierPayload struct {
	DocumentTypeID int64  `json:"documentTypeId"`
	Status         string `json:"status"`
	DocumentKey    string `json:"documentKey"`
	Description    string `json:"description,omitempty"`
}

type IdentifierCreationResponse struct {
	OfficeID   int64 `json:"officeId"`
	ClientID   int64 `json:"clientId"`
	ResourceID int64 `json:"resourceId"`
}

type IdentifierTemplate struct {
	AllowedDocumentTypes []Option `json:"allowedDocumentTypes"`
}

// ClientAddressRequest is a pinpoint location entry for a client.
type ClientAddressRequest struct {
	PlaceID      string  `json:"placeId"`
	PlaceAddress string  `json:"placeAddress"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

type ClientAddressResponse struct {
	ID           int64   `json:"id"`
	ClientID     int64   `json:"clientId"`
	PlaceID      string  `json:"placeId"`
	PlaceAddress string  `json:"placeAddress"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Image is a client profile picture upload.
type Image struct {
	FileName    string
	ContentType string
	Data        []byte
}
