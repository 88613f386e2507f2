package library

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// codec turns a LibraryData snapshot into bytes and back.
type codec interface {
	marshal(data *LibraryData) ([]byte, error)
	unmarshal(b []byte, data *LibraryData) error
}

type jsonCodec struct{}

func (jsonCodec) marshal(data *LibraryData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

func (jsonCodec) unmarshal(b []byte, data *LibraryData) error {
	return json.Unmarshal(b, data)
}

type yamlCodec struct{}

func (yamlCodec) marshal(data *LibraryData) ([]byte, error) {
	return yaml.Marshal(data)
}

func (yamlCodec) unmarshal(b []byte, data *LibraryData) error {
	return yaml.Unmarshal(b, data)
}

func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}

// FileStore keeps the library in a single JSON or YAML file, picked by the
// file extension.
type FileStore struct {
	path  string
	codec codec
}

// NewFileStore returns a store backed by the file at path. The file is not
// touched until the first Load or Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, codec: codecFor(path)}
}

// Path returns the location of the state file.
func (s *FileStore) Path() string { return s.path }

// Load reads the state file. A missing file yields an empty library.
func (s *FileStore) Load() (*LibraryData, error) {
	b, err := os.ReadFile(filepath.Clean(s.path))
	if errors.Is(err, fs.ErrNotExist) {
		return &LibraryData{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read state file")
	}

	var data LibraryData
	if err := s.codec.unmarshal(b, &data); err != nil {
		return nil, errors.Wrapf(err, "decode state file %s", s.path)
	}
	return &data, nil
}

// Save writes data to a temporary file next to the target and renames it
// into place, so readers see either the old or the new state.
func (s *FileStore) Save(data *LibraryData) error {
	b, err := s.codec.marshal(data)
	if err != nil {
		return errors.Wrap(err, "encode state")
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create state dir")
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "sync temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.Wrap(err, "replace state file")
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error { return nil }
