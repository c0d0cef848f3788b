package dto

// InsertResponse reports the id of a created document.
type InsertResponse struct {
	InsertedID string `json:"insertedId"`
}

// DeleteResponse reports how many documents were removed.
type DeleteResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// EmptyListMessage marks a successful listing without matches.
const EmptyListMessage = "no items found"

// ListResponse wraps a listing; Message is set only when Data is empty.
type ListResponse[T any] struct {
	Data    []T    `json:"data"`
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// NewListResponse builds a ListResponse, never serialising a null list.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	resp := ListResponse[T]{Data: items, Count: len(items)}
	if len(items) == 0 {
		resp.Message = EmptyListMessage
	}
	return resp
}
