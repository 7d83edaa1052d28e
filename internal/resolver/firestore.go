package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/kurihiro0119/ops-task-report/internal/config"
	apperrors "github.com/kurihiro0119/ops-task-report/internal/errors"
)

// TaskNamesCollection is the collection holding one name document per chain id
const TaskNamesCollection = "task-names"

// FirestoreOptions identifies the Firebase project holding the task names
type FirestoreOptions struct {
	BaseURL     string // e.g. https://firestore.googleapis.com/v1
	ProjectID   string
	APIKey      string
	AccessToken string // optional static bearer token
	HTTPClient  *http.Client
}

// FirestoreOptionsFromConfig maps application config onto FirestoreOptions
func FirestoreOptionsFromConfig(cfg *config.Config) FirestoreOptions {
	return FirestoreOptions{
		BaseURL:     cfg.FirestoreBaseURL,
		ProjectID:   cfg.FirebaseProjectID,
		APIKey:      cfg.FirebaseAPIKey,
		AccessToken: cfg.FirebaseAccessToken,
	}
}

// firestoreValue is the subset of Firestore's typed value we read
type firestoreValue struct {
	StringValue *string `json:"stringValue"`
}

type firestoreDocument struct {
	Name   string                    `json:"name"`
	Fields map[string]firestoreValue `json:"fields"`
}

// FirestoreStore reads task-name documents over the Firestore REST API
type FirestoreStore struct {
	opts   FirestoreOptions
	client *http.Client
}

// NewFirestoreStore creates a store. Settings are validated on first fetch.
func NewFirestoreStore(opts FirestoreOptions) *FirestoreStore {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if opts.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken}))
	}
	return &FirestoreStore{opts: opts, client: client}
}

// GetNames implements NameStore
func (s *FirestoreStore) GetNames(ctx context.Context, chainID string) (map[string]string, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s/%s",
		strings.TrimRight(s.opts.BaseURL, "/"),
		url.PathEscape(s.opts.ProjectID),
		TaskNamesCollection,
		url.PathEscape(chainID),
	)
	if s.opts.APIKey != "" {
		u += "?key=" + url.QueryEscape(s.opts.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build firestore request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailableError("firestore", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s/%s", TaskNamesCollection, chainID))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.NewBadResponseError(
			fmt.Sprintf("firestore returned %s: %s", resp.Status, strings.TrimSpace(string(snippet))), nil)
	}

	var doc firestoreDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, apperrors.NewBadResponseError("failed to decode firestore document", err)
	}

	names := make(map[string]string, len(doc.Fields))
	for taskID, v := range doc.Fields {
		if v.StringValue != nil {
			names[taskID] = *v.StringValue
		}
	}
	return names, nil
}

func (s *FirestoreStore) validate() error {
	if s.opts.ProjectID == "" {
		return &config.ConfigError{Field: "FIREBASE_PROJECT_ID", Message: "Firebase project id is required"}
	}
	if s.opts.APIKey == "" && s.opts.AccessToken == "" {
		return &config.ConfigError{Field: "FIREBASE_API_KEY", Message: "Firebase API key is required"}
	}
	if s.opts.BaseURL == "" {
		return &config.ConfigError{Field: "FIRESTORE_BASE_URL", Message: "Firestore base URL is required"}
	}
	return nil
}
