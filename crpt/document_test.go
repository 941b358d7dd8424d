/*
Copyright © 2025 ISMP Tools.

Released under MIT license.
*/

package crpt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2023, time.January, 23)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	require.Equal(t, `"2023-01-23"`, string(b))

	var got Date
	require.NoError(t, json.Unmarshal(b, &got))
	require.True(t, d.Equal(got.Time))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))

	require.NoError(t, json.Unmarshal([]byte("null"), &got))
	require.True(t, got.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"23.01.2023"`), &got))
	require.Error(t, json.Unmarshal([]byte(`20230123`), &got))
}

func testDocument() Document {
	return Document{
		Description:    []Participant{{ParticipantInn: "1234567890"}},
		DocID:          "doc-1",
		DocStatus:      "DRAFT",
		DocType:        DocTypeLPIntroduceGoods,
		ImportRequest:  true,
		OwnerInn:       "1234567890",
		ParticipantInn: "1234567890",
		ProducerInn:    "0987654321",
		ProductionDate: NewDate(2023, time.January, 20),
		ProductionType: "OWN_PRODUCTION",
		Products: []Product{
			{
				CertificateDocument:       "CONFORMITY_CERTIFICATE",
				CertificateDocumentDate:   NewDate(2023, time.January, 10),
				CertificateDocumentNumber: "cert-42",
				OwnerInn:                  "1234567890",
				ProducerInn:               "0987654321",
				ProductionDate:            NewDate(2023, time.January, 20),
				TnvedCode:                 "6401100000",
				UitCode:                   "uit-1",
			},
		},
		RegDate:   NewDate(2023, time.January, 23),
		RegNumber: "reg-7",
	}
}

func TestSubmissionWireShape(t *testing.T) {
	sub := NewSubmission(testDocument(), "c2lnbmF0dXJl")

	b, err := json.Marshal(sub)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"description": [{"participantInn": "1234567890"}],
		"doc_id": "doc-1",
		"doc_status": "DRAFT",
		"doc_type": "LP_INTRODUCE_GOODS",
		"importRequest": true,
		"owner_inn": "1234567890",
		"participant_inn": "1234567890",
		"producer_inn": "0987654321",
		"production_date": "2023-01-20",
		"production_type": "OWN_PRODUCTION",
		"products": [{
			"certificate_document": "CONFORMITY_CERTIFICATE",
			"certificate_document_date": "2023-01-10",
			"certificate_document_number": "cert-42",
			"owner_inn": "1234567890",
			"producer_inn": "0987654321",
			"production_date": "2023-01-20",
			"tnved_code": "6401100000",
			"uit_code": "uit-1"
		}],
		"reg_date": "2023-01-23",
		"reg_number": "reg-7",
		"signature": "c2lnbmF0dXJl"
	}`, string(b))

	var got Submission
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, sub, got)
}

func TestProductWithoutCertificateDate(t *testing.T) {
	p := Product{
		OwnerInn:       "1234567890",
		ProducerInn:    "0987654321",
		ProductionDate: NewDate(2023, time.January, 20),
		TnvedCode:      "6401100000",
	}
	b, err := json.Marshal(p)
	require.NoError(t, err)
	require.Contains(t, string(b), `"certificate_document_date":null`)
}

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		Name    string
		Mutate  func(s *Submission)
		WantErr bool
	}{
		{
			Name:   "valid",
			Mutate: func(s *Submission) {},
		},
		{
			Name:    "missing signature",
			Mutate:  func(s *Submission) { s.Signature = "" },
			WantErr: true,
		},
		{
			Name:    "missing doc id",
			Mutate:  func(s *Submission) { s.DocID = "" },
			WantErr: true,
		},
		{
			Name:    "bad inn length",
			Mutate:  func(s *Submission) { s.OwnerInn = "123" },
			WantErr: true,
		},
		{
			Name:    "non-numeric inn",
			Mutate:  func(s *Submission) { s.ParticipantInn = "12345678ab" },
			WantErr: true,
		},
		{
			Name:    "no products",
			Mutate:  func(s *Submission) { s.Products = nil },
			WantErr: true,
		},
		{
			Name:    "product with bad producer inn",
			Mutate:  func(s *Submission) { s.Products[0].ProducerInn = "x" },
			WantErr: true,
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			sub := NewSubmission(testDocument(), "c2lnbmF0dXJl")
			tt.Mutate(&sub)
			err := sub.Validate()
			if tt.WantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
