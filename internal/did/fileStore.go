package did

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/tcfw/docverify/pkg/cryptography"
	"github.com/tcfw/docverify/pkg/did"
	"gopkg.in/yaml.v3"
)

const (
	keyTypeEthr    = "ethr"
	keyTypeEd25519 = "ed25519"
)

var ErrIdentityNotFound = errors.New("identity not found")

type IdentityFileStore struct {
	Ids []IdentityFileStoreId `yaml:"ids"`
}

type IdentityFileStoreId struct {
	Type string `yaml:"type"`
	// DID is only stored for key types the DID can't be derived from
	DID  string `yaml:"did,omitempty"`
	Data string `yaml:"data"`
}

var _ did.IdentityStore = (*FileStore)(nil)

// FileStore keeps signing identities in a YAML file
type FileStore struct {
	path string
	ids  IdentityFileStore
	idx  map[string]did.PrivateIdentity

	mu sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	f := &FileStore{path: path}
	if err := f.read(); err != nil {
		return nil, err
	}

	return f, nil
}

func (fs *FileStore) read() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return errors.Wrap(err, "creating identity dir")
	}

	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return errors.Wrap(err, "opening identity file for read")
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrap(err, "reading identity file")
	}

	if err := yaml.Unmarshal(d, &fs.ids); err != nil {
		return errors.Wrap(err, "unmarshalling identity data")
	}

	return fs.buildIdx()
}

func (fs *FileStore) buildIdx() error {
	//assumes locked fs.mu

	fs.idx = make(map[string]did.PrivateIdentity, len(fs.ids.Ids))

	for _, fid := range fs.ids.Ids {
		id, err := fs.decodeType(fid)
		if err != nil {
			return errors.Wrap(err, "decoding id")
		}

		pid, err := id.PublicIdentity()
		if err != nil {
			return errors.Wrap(err, "getting public id from private")
		}

		fs.idx[pid.ID] = id
	}

	return nil
}

func (fs *FileStore) decodeType(fid IdentityFileStoreId) (did.PrivateIdentity, error) {
	raw, err := base64.StdEncoding.DecodeString(fid.Data)
	if err != nil {
		return nil, errors.Wrap(err, "decoding b64 identity data")
	}

	switch fid.Type {
	case keyTypeEthr:
		return did.NewEthrIdentity(raw)
	case keyTypeEd25519:
		if fid.DID == "" {
			return nil, errors.New("ed25519 identity without did")
		}
		return did.NewEd25519Identity(fid.DID, raw)
	default:
		return nil, fmt.Errorf("unknown key type %s", fid.Type)
	}
}

func (fs *FileStore) Add(id did.PrivateIdentity) error {
	pid, err := id.PublicIdentity()
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	//check if in idx
	if _, ok := fs.idx[pid.ID]; ok {
		return nil
	}

	var f IdentityFileStoreId

	switch t := id.(type) {
	case *did.EthrIdentity:
		raw, err := t.PrivateKey().(*cryptography.Secp256k1PrivateKey).Bytes()
		if err != nil {
			return errors.Wrap(err, "encoding secp256k1 key")
		}
		f = IdentityFileStoreId{Type: keyTypeEthr, Data: base64.StdEncoding.EncodeToString(raw)}
	case *did.Ed25519Identity:
		pk := t.PrivateKey().(ed25519.PrivateKey)
		f = IdentityFileStoreId{Type: keyTypeEd25519, DID: t.DID(), Data: base64.StdEncoding.EncodeToString(pk)}
	default:
		return fmt.Errorf("unknown did PK type %T", t)
	}

	fs.ids.Ids = append(fs.ids.Ids, f)
	fs.idx[pid.ID] = id

	return fs.write()
}

func (fs *FileStore) write() error {
	f, err := os.OpenFile(fs.path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "opening identity file for write")
	}
	defer f.Close()

	d, err := yaml.Marshal(&fs.ids)
	if err != nil {
		return errors.Wrap(err, "marshalling identity data")
	}

	_, err = f.Write(d)
	return err
}

// Find looks an identity up by its DID or by one of its verification method ids
func (fs *FileStore) Find(id string) (did.PrivateIdentity, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	base, _, _ := strings.Cut(id, "#")

	i, ok := fs.idx[base]
	if !ok {
		return nil, errors.Wrap(ErrIdentityNotFound, id)
	}

	return i, nil
}

func (fs *FileStore) List() ([]did.PrivateIdentity, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ids := make([]did.PrivateIdentity, 0, len(fs.ids.Ids))

	for _, fid := range fs.ids.Ids {
		id, err := fs.decodeType(fid)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
