// Package blob selects and constructs the artifact store used for exports.
package blob

import (
	"context"
	"fmt"
	"os"

	"github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/blob/core"
	fsstore "github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/blob/fs"
	memorystore "github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/blob/memory"
	s3store "github.com/CourtEvo/CourtEvoVeroHub-sub005/internal/infra/blob/s3"
)

type (
	// Driver identifies a backend.
	Driver = core.Driver
	// PutOptions configures a write.
	PutOptions = core.PutOptions
	// Info describes a stored artifact.
	Info = core.Info
	// Store is the artifact store interface.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = s3store.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrNotFound = core.ErrNotFound
	ErrExists   = core.ErrExists
)

// Environment variables read by Open.
const (
	EnvDriver = "WHATIF_EXPORT_DRIVER"
	EnvFSRoot = "WHATIF_EXPORT_FS_ROOT"
)

// Open selects a store from the environment:
//
//	WHATIF_EXPORT_DRIVER: fs|s3|memory (default fs)
//	WHATIF_EXPORT_FS_ROOT: root directory for fs (default ./exports)
//	WHATIF_EXPORT_S3_*: see the s3 backend
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv(EnvDriver)
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv(EnvFSRoot))
	case DriverS3:
		return s3store.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown export driver %s", driver)
	}
}

// NewMemory returns an in-memory store.
func NewMemory() Store { return memorystore.New() }

// NewFilesystem returns a store rooted at root.
func NewFilesystem(root string) (Store, error) { return fsstore.New(root) }

// NewS3 returns an S3-backed store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) { return s3store.New(ctx, cfg) }
