package dto

import (
	"time"

	verificationDomain "github.com/idshield/verification/internal/verification/domain"
	verificationUseCase "github.com/idshield/verification/internal/verification/usecase"
)

// IngressResponse confirms a stored record without echoing any sensitive data.
type IngressResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// MapRecordToIngressResponse maps a stored record to an IngressResponse DTO.
func MapRecordToIngressResponse(record *verificationDomain.Record) IngressResponse {
	return IngressResponse{
		ID:        record.ID.String(),
		CreatedAt: record.CreatedAt,
	}
}

// SearchRecord is the decrypted view of a matched record.
type SearchRecord struct {
	ID             string         `json:"id"`
	NationalID     string         `json:"national_id"`
	Name           string         `json:"name"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// SearchResponse reports whether a record matched and, if so, its decrypted payload.
type SearchResponse struct {
	Found  bool          `json:"found"`
	Record *SearchRecord `json:"record,omitempty"`
}

// MapSearchResultToResponse maps a usecase search result to a SearchResponse DTO.
func MapSearchResultToResponse(result *verificationUseCase.SearchResult) SearchResponse {
	return SearchResponse{
		Found: true,
		Record: &SearchRecord{
			ID:             result.RecordID.String(),
			NationalID:     result.Payload.NationalID,
			Name:           result.Payload.Name,
			AdditionalData: result.Payload.AdditionalData,
			CreatedAt:      result.CreatedAt,
		},
	}
}

// NotFoundSearchResponse is the fixed body returned when no record matches.
func NotFoundSearchResponse() SearchResponse {
	return SearchResponse{Found: false}
}

// PublicKeyResponse carries the PEM-encoded RSA public key clients seal envelopes with.
type PublicKeyResponse struct {
	PublicKey string `json:"public_key"`
	KeyType   string `json:"key_type"`
}

// RecordResponse is the listing view of a stored record. Only non-sensitive
// metadata is exposed; encrypted columns and the index token stay internal.
type RecordResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListRecordsResponse represents the response for listing verification records.
type ListRecordsResponse struct {
	Data []RecordResponse `json:"data"`
}

// MapRecordsToListResponse maps a slice of Record domain entities to a ListRecordsResponse DTO.
// Returns an empty list instead of null when there are no items to match API conventions.
func MapRecordsToListResponse(records []*verificationDomain.Record) ListRecordsResponse {
	items := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		items = append(items, RecordResponse{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		})
	}

	return ListRecordsResponse{
		Data: items,
	}
}
