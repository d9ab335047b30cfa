package secretstore

import (
	"context"
	"sync"

	operrors "github.com/itlabs-io/connector-operator/pkg/errors"
)

// Fake is an in-memory Gateway double with Vault's CAS=0 create semantics,
// grounded on clients/vault/tests/mocks.py's MockedVaultClient but extended
// to actually enforce create-if-absent (the Python mock doesn't, since its
// tests drive the service layer directly rather than racing writers).
type Fake struct {
	mu sync.Mutex

	data map[string]map[string]string

	CreateCallCount int
	ReadCallCount   int
	DeleteCallCount int
}

func NewFake() *Fake {
	return &Fake{data: map[string]map[string]string{}}
}

func (f *Fake) key(ref Ref) string {
	return ref.Mount + "/" + ref.Subpath
}

func (f *Fake) ReadLatest(ctx context.Context, ref Ref) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ReadCallCount++

	secret, ok := f.data[f.key(ref)]
	if !ok {
		return nil, nil
	}

	copied := make(map[string]string, len(secret))
	for k, v := range secret {
		copied[k] = v
	}
	return copied, nil
}

func (f *Fake) Create(ctx context.Context, ref Ref, data map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCallCount++

	k := f.key(ref)
	if _, exists := f.data[k]; exists {
		return operrors.NewInfrastructureServiceProblem("Vault", errAlreadyExists(k))
	}

	copied := make(map[string]string, len(data))
	for key, v := range data {
		copied[key] = v
	}
	f.data[k] = copied

	return nil
}

func (f *Fake) DeleteAllVersions(ctx context.Context, ref Ref) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCallCount++
	delete(f.data, f.key(ref))

	return nil
}

// Seed pre-populates a secret, bypassing CAS, so tests can set up "tenant
// credential already exists" fixtures.
func (f *Fake) Seed(ref Ref, data map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := make(map[string]string, len(data))
	for k, v := range data {
		copied[k] = v
	}
	f.data[f.key(ref)] = copied
}

type errAlreadyExists string

func (e errAlreadyExists) Error() string {
	return "secret already exists at " + string(e)
}
