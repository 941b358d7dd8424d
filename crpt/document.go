/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crpt

// DocType identifies the kind of document being registered.
type DocType string

// Document types accepted by the registration endpoint.
const (
	DocTypeLPIntroduceGoods DocType = "LP_INTRODUCE_GOODS"
)

// Participant is a single entry of a document's description block.
type Participant struct {
	ParticipantInn string `json:"participantInn" validate:"required,inn"`
}

// Product is one item of a document's products collection.
type Product struct {
	CertificateDocument       string `json:"certificate_document,omitempty"`
	CertificateDocumentDate   Date   `json:"certificate_document_date"`
	CertificateDocumentNumber string `json:"certificate_document_number,omitempty"`
	OwnerInn                  string `json:"owner_inn" validate:"required,inn"`
	ProducerInn               string `json:"producer_inn" validate:"required,inn"`
	ProductionDate            Date   `json:"production_date"`
	TnvedCode                 string `json:"tnved_code" validate:"required"`
	UitCode                   string `json:"uit_code,omitempty"`
	UituCode                  string `json:"uitu_code,omitempty"`
}

// Document describes goods introduced into turnover. Field names follow the
// registration API's JSON contract, dates are "yyyy-MM-dd".
type Document struct {
	Description    []Participant `json:"description,omitempty" validate:"dive"`
	DocID          string        `json:"doc_id" validate:"required"`
	DocStatus      string        `json:"doc_status" validate:"required"`
	DocType        DocType       `json:"doc_type" validate:"required"`
	ImportRequest  bool          `json:"importRequest"`
	OwnerInn       string        `json:"owner_inn" validate:"required,inn"`
	ParticipantInn string        `json:"participant_inn" validate:"required,inn"`
	ProducerInn    string        `json:"producer_inn" validate:"required,inn"`
	ProductionDate Date          `json:"production_date"`
	ProductionType string        `json:"production_type" validate:"required"`
	Products       []Product     `json:"products" validate:"required,min=1,dive"`
	RegDate        Date          `json:"reg_date"`
	RegNumber      string        `json:"reg_number" validate:"required"`
}

// Submission pairs a document with its detached signature. A document is
// never sent without a signature, and the signature travels as one more
// top-level field of the same JSON object. The value is built once and
// serialized as-is, it is never patched after marshaling.
type Submission struct {
	Document
	Signature string `json:"signature" validate:"required"`
}

// NewSubmission builds the wire payload for one document and its signature.
func NewSubmission(doc Document, signature string) Submission {
	return Submission{Document: doc, Signature: signature}
}
