package types

import "time"

// FeedbackSubmittedSchemaVersion tags the wire shape of FeedbackSubmittedEvent
// so consumers can tell it apart from future revisions of the record.
const FeedbackSubmittedSchemaVersion = 1

// FeedbackSubmittedEvent is published once per stored feedback record.
type FeedbackSubmittedEvent struct {
	ID            string    `json:"id"`
	MemberID      string    `json:"memberId"`
	ProviderName  string    `json:"providerName"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	SubmittedAt   time.Time `json:"submittedAt"`
	SchemaVersion int       `json:"schemaVersion"`
}
