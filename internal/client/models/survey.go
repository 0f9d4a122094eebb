package models

type Survey struct {
	ID            int64          `json:"id"`
	Key           string         `json:"key"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	CountryCode   string         `json:"countryCode,omitempty"`
	QuestionDatas []QuestionData `json:"questionDatas,omitempty"`
}

func (s Survey) EntityID() int64 { return s.ID }

type QuestionData struct {
	QuestionID    int64          `json:"id"`
	Key           string         `json:"key"`
	Text          string         `json:"text"`
	Description   string         `json:"description,omitempty"`
	SequenceNo    int            `json:"sequenceNo"`
	ResponseDatas []ResponseData `json:"responseDatas,omitempty"`
}

type ResponseData struct {
	ResponseID int64  `json:"id"`
	Text       string `json:"text"`
	Value      int    `json:"value"`
	SequenceNo int    `json:"sequenceNo"`
}

// Scorecard is a filled survey submitted for a client.
type Scorecard struct {
	UserID          int64            `json:"userId"`
	ClientID        int64            `json:"clientId"`
	CreatedOn       string           `json:"createdOn,omitempty"`
	ScorecardValues []ScorecardValue `json:"scorecardValues"`
}

type ScorecardValue struct {
	QuestionID int64 `json:"questionId"`
	ResponseID int64 `json:"responseId"`
	Value      int   `json:"value"`
}
