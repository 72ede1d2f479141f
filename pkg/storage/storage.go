// Package storage keeps document payloads, such as extracted text, in Azure
// Blob Storage under slash-separated keys.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/steward/pkg/lifecycle"
)

type System interface {
	// Start creates the container on startup if it does not exist.
	Start(lc *lifecycle.Coordinator) error
	// Ready reports whether the container is known to exist.
	Ready() bool
	// Put writes data at key, replacing any existing blob. Metadata is
	// stored alongside the blob.
	Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error
	// Download streams the blob at key. The caller closes the reader.
	// A missing blob returns ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob at key. A missing blob returns ErrNotFound.
	Delete(ctx context.Context, key string) error
}

type azure struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
	ready     atomic.Bool
}

// New builds the client without contacting the service. A connection
// string wins over an account URL.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "storage"),
	}, nil
}

func newClient(cfg *Config) (*azblob.Client, error) {
	if cfg.ConnectionString != "" {
		return azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	}

	cred, err := credential(cfg.ClientID)
	if err != nil {
		return nil, err
	}
	return azblob.NewClient(cfg.AccountURL, cred, nil)
}

// credential uses the user-assigned managed identity when clientID is set
// and the default credential chain otherwise.
func credential(clientID string) (azcore.TokenCredential, error) {
	if clientID != "" {
		cred, err := azidentity.NewManagedIdentityCredential(&azidentity.ManagedIdentityCredentialOptions{
			ID: azidentity.ClientID(clientID),
		})
		if err != nil {
			return nil, fmt.Errorf("managed identity credential: %w", err)
		}
		return cred, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("default azure credential: %w", err)
	}
	return cred, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	a.logger.Info("starting storage system", "container", a.container)

	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("storage container initialization failed", "error", err)
			return
		}

		a.ready.Store(true)
		a.logger.Info("storage container ready", "container", a.container)
	})

	return nil
}

func (a *azure) Ready() bool {
	return a.ready.Load()
}

func (a *azure) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	opts := &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if len(metadata) > 0 {
		opts.Metadata = make(map[string]*string, len(metadata))
		for k, v := range metadata {
			opts.Metadata[k] = &v
		}
	}

	if _, err := a.client.UploadBuffer(ctx, a.container, key, data, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", key, err)
	}
	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}
	return resp.Body, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := a.client.DeleteBlob(ctx, a.container, key, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

// validateKey rejects empty keys and keys with a ".." element anywhere,
// including partial segments such as "..hidden".
func validateKey(key string) error {
	switch {
	case key == "":
		return ErrEmptyKey
	case strings.Contains(key, ".."), strings.HasPrefix(key, "/"):
		return ErrInvalidKey
	}
	return nil
}
