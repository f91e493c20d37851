package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/solarcast/solarcast/pkg/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreProvider stores artifacts as documents in a Firestore collection.
// Each document holds the serialized artifact in its "data" field.
type FirestoreProvider struct {
	client          *firestore.Client
	projectID       string
	database        string
	collection      string
	credentialsFile string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")
	collection := lflag.String("firestore-collection", "artifacts", "Firestore collection holding artifact documents")
	credentialsFile := lflag.String("firestore-credentials-file", "", "Service account JSON file (defaults to application default credentials)")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database
		f.collection = *collection
		f.credentialsFile = *credentialsFile

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	if f.collection == "" {
		return fmt.Errorf("firestore-collection is required")
	}
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	var opts []option.ClientOption
	if f.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(f.credentialsFile))
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database, opts...)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) doc(name string) (*firestore.DocumentRef, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return f.client.Collection(f.collection).Doc(name), nil
}

// Get reads the "data" field of the named artifact document.
func (f *FirestoreProvider) Get(ctx context.Context, name string) ([]byte, error) {
	ref, err := f.doc(name)
	if err != nil {
		return nil, err
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to fetch artifact doc: %w", err)
	}

	val, err := doc.DataAt("data")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "artifact doc missing data", slog.String("name", name))
		return nil, fmt.Errorf("artifact document missing 'data' field: %w", err)
	}
	b, ok := val.([]byte)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "artifact doc data not bytes", slog.String("name", name))
		return nil, fmt.Errorf("artifact 'data' field is not bytes")
	}
	return b, nil
}

// Put saves the artifact document, overwriting any previous version.
func (f *FirestoreProvider) Put(ctx context.Context, name string, data []byte) error {
	ref, err := f.doc(name)
	if err != nil {
		return err
	}
	_, err = ref.Set(ctx, map[string]interface{}{
		"data":    data,
		"updated": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to save artifact: %w", err)
	}
	return nil
}

// List returns the IDs of every document in the artifact collection.
func (f *FirestoreProvider) List(ctx context.Context) ([]string, error) {
	iter := f.client.Collection(f.collection).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var names []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
		}
		names = append(names, doc.Ref.ID)
	}
	return names, nil
}
