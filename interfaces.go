package clientdesk

import "context"

// RecordSource fetches the record collection from the remote service.
// Implementations: rest/ (HTTP), fake/ (testing).
type RecordSource interface {
	// FetchRecords returns the ordered record set matching the query.
	FetchRecords(ctx context.Context, q ListQuery) ([]ClientRecord, error)
}

// CatalogSource fetches the lifecycle catalog from the remote service.
type CatalogSource interface {
	// FetchCatalog returns the ordered catalog entries.
	FetchCatalog(ctx context.Context) ([]CatalogEntry, error)
}

// AgentSource lists the agents records can be assigned to. Used by roles
// authorized to browse across agents.
type AgentSource interface {
	// FetchAgents returns all known agents.
	FetchAgents(ctx context.Context) ([]AgentRef, error)
}

// MutationBackend applies record mutations at the remote service. The
// server is the sole source of truth for the resulting record shape; no
// implementation performs local merges.
type MutationBackend interface {
	// SetState changes the lifecycle state of one record. The request
	// carries only the new state id, never the full record.
	SetState(ctx context.Context, recordID, stateID int) error

	// UpdateRecord replaces a record's mutable fields.
	UpdateRecord(ctx context.Context, rec ClientRecord) error

	// DeleteRecord removes a record.
	DeleteRecord(ctx context.Context, recordID int) error
}

// AuthBackend performs the remote authentication call. The session itself
// only records its successful result.
type AuthBackend interface {
	// Login exchanges credentials for the authenticated user and an
	// opaque session token.
	Login(ctx context.Context, email, password string) (*User, string, error)
}

// Notifier surfaces user-visible outcome notifications. The hosting page
// supplies the concrete implementation (toasts, banners).
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}
