package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/resource"
)

const (
	blobsBucket    = "blobs"
	infoBucket     = "info"
	metadataBucket = "metadata"
	schemaVersion  = 1
)

// BboltRepository implements Repository on a bbolt file
type BboltRepository struct {
	db *bbolt.DB
}

// NewBboltRepository creates a new bbolt repository
func NewBboltRepository(dbPath string) (*BboltRepository, error) {
	options := &bbolt.Options{
		Timeout: 1 * time.Second,
	}

	db, err := bbolt.Open(dbPath, 0o600, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &BboltRepository{
		db: db,
	}

	if err := repo.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// initialize sets up buckets and schema
func (r *BboltRepository) initialize() error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{blobsBucket, infoBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		metadataBucket, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return fmt.Errorf("failed to create metadata bucket: %w", err)
		}

		versionBytes := []byte(fmt.Sprintf("%d", schemaVersion))
		err = metadataBucket.Put([]byte("schema_version"), versionBytes)
		if err != nil {
			return fmt.Errorf("failed to store schema version: %w", err)
		}

		return nil
	})
}

// Save reads r fully and persists it as a new blob
func (r *BboltRepository) Save(name string, content io.Reader) (resource.Info, error) {
	data, info, err := readAll(name, content)
	if err != nil {
		return resource.Info{}, err
	}

	err = r.db.Update(func(tx *bbolt.Tx) error {
		blobs, infos, err := buckets(tx)
		if err != nil {
			return err
		}

		meta, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal blob info: %w", err)
		}

		key := []byte(info.ID.String())
		if err := blobs.Put(key, data); err != nil {
			return fmt.Errorf("failed to save blob: %w", err)
		}
		if err := infos.Put(key, meta); err != nil {
			return fmt.Errorf("failed to save blob info: %w", err)
		}

		return nil
	})
	if err != nil {
		return resource.Info{}, err
	}

	return info, nil
}

// Find retrieves a blob resource by ID
func (r *BboltRepository) Find(id uuid.UUID) (*BlobResource, error) {
	if id == uuid.Nil {
		return nil, errors.New("blob ID cannot be empty")
	}

	var info resource.Info
	err := r.db.View(func(tx *bbolt.Tx) error {
		_, infos, err := buckets(tx)
		if err != nil {
			return err
		}

		data := infos.Get([]byte(id.String()))
		if data == nil {
			return ErrBlobNotFound
		}

		if err := json.Unmarshal(data, &info); err != nil {
			return fmt.Errorf("failed to unmarshal blob info: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BlobResource{info: info, store: r}, nil
}

// FindAll retrieves metadata for every blob
func (r *BboltRepository) FindAll() ([]resource.Info, error) {
	var list []resource.Info

	err := r.db.View(func(tx *bbolt.Tx) error {
		_, infos, err := buckets(tx)
		if err != nil {
			return err
		}

		return infos.ForEach(func(k, v []byte) error {
			var info resource.Info
			if err := json.Unmarshal(v, &info); err != nil {
				return fmt.Errorf("failed to unmarshal blob info: %w", err)
			}

			list = append(list, info)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return list, nil
}

// Delete removes a blob and its metadata
func (r *BboltRepository) Delete(id uuid.UUID) error {
	if id == uuid.Nil {
		return errors.New("blob ID cannot be empty")
	}

	return r.db.Update(func(tx *bbolt.Tx) error {
		blobs, infos, err := buckets(tx)
		if err != nil {
			return err
		}

		key := []byte(id.String())
		if infos.Get(key) == nil {
			return ErrBlobNotFound
		}

		if err := blobs.Delete(key); err != nil {
			return err
		}
		return infos.Delete(key)
	})
}

// Close closes the database
func (r *BboltRepository) Close() error {
	return r.db.Close()
}

// readBlob copies the value out; bbolt memory is only valid inside the tx.
func (r *BboltRepository) readBlob(id uuid.UUID) ([]byte, error) {
	var data []byte

	err := r.db.View(func(tx *bbolt.Tx) error {
		blobs, infos, err := buckets(tx)
		if err != nil {
			return err
		}

		key := []byte(id.String())
		if infos.Get(key) == nil {
			return ErrBlobNotFound
		}

		v := blobs.Get(key)

		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

func buckets(tx *bbolt.Tx) (*bbolt.Bucket, *bbolt.Bucket, error) {
	blobs := tx.Bucket([]byte(blobsBucket))
	if blobs == nil {
		return nil, nil, fmt.Errorf("bucket not found: %s", blobsBucket)
	}

	infos := tx.Bucket([]byte(infoBucket))
	if infos == nil {
		return nil, nil, fmt.Errorf("bucket not found: %s", infoBucket)
	}

	return blobs, infos, nil
}
