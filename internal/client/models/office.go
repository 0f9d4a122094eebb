package models

type Office struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	NameDecorated string `json:"nameDecorated,omitempty"`
	ExternalID    string `json:"externalId,omitempty"`
	ParentID      int64  `json:"parentId,omitempty"`
	ParentName    string `json:"parentName,omitempty"`
	Hierarchy     string `json:"hierarchy,omitempty"`
	OpeningDate   []int  `json:"openingDate,omitempty"`
}

func (o Office) EntityID() int64 { return o.ID }
