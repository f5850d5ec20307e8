package primary

import (
	"context"
	"errors"
)

// ErrPartialFulfillment marks a parts operation whose first step was saved but
// whose follow-up step (corrective task, link or task status) failed.
var ErrPartialFulfillment = errors.New("parts request updated but follow-up step failed")

// PartsService defines the primary port for parts requests and their link to corrective work.
type PartsService interface {
	// CreatePartsRequest raises a parts request against a task.
	CreatePartsRequest(ctx context.Context, req CreatePartsRequest) (*PartsRequest, error)

	// GetPartsRequest retrieves a parts request by ID.
	GetPartsRequest(ctx context.Context, id string) (*PartsRequest, error)

	// ListPartsRequests lists parts requests with optional filters.
	ListPartsRequests(ctx context.Context, filters PartsRequestFilters) ([]*PartsRequest, error)

	// MarkOrdered records that the parts were ordered.
	MarkOrdered(ctx context.Context, id string) error

	// HandlePartsReceived records receipt and spawns the corrective install task.
	HandlePartsReceived(ctx context.Context, id string) (*PartsReceivedResponse, error)

	// HandlePartsInstalled records installation and completes the corrective task.
	HandlePartsInstalled(ctx context.Context, id string) error

	// CancelPartsRequest cancels an outstanding parts request.
	CancelPartsRequest(ctx context.Context, id string) error
}

// CreatePartsRequest contains parameters for raising a parts request.
type CreatePartsRequest struct {
	TaskID      string
	Description string
	Quantity    int
	Urgency     string
}

// PartsReceivedResponse contains the result of receiving parts.
type PartsReceivedResponse struct {
	Request        *PartsRequest
	CorrectiveTask *Task
}

// PartsRequest represents a parts request at the port boundary.
type PartsRequest struct {
	ID               string
	TaskID           string
	Description      string
	Quantity         int
	Urgency          string
	Status           string
	CorrectiveTaskID string
	RequestedDate    string
	OrderedDate      string
	ReceivedDate     string
	InstalledDate    string
}

// PartsRequestFilters contains filter options for listing parts requests.
type PartsRequestFilters struct {
	TaskID string
	Status string
}
