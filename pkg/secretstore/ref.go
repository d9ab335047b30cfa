package secretstore

import (
	"fmt"
	"strings"
)

// Ref is a parsed Secret-Store reference of the form
// vault:<mount>/data/<subpath>[#<key>], as described in SPEC_FULL.md §6.1.
type Ref struct {
	Mount   string
	Subpath string
	Key     string // empty if the reference names a whole secret, not one key
}

// ParseRef parses the string form of a reference. It does not validate that
// the referenced secret exists.
func ParseRef(raw string) (Ref, error) {
	const prefix = "vault:"

	if !strings.HasPrefix(raw, prefix) {
		return Ref{}, fmt.Errorf("not a vault reference: %q", raw)
	}

	rest := strings.TrimPrefix(raw, prefix)

	path, key, _ := strings.Cut(rest, "#")

	mount, subpath, ok := strings.Cut(path, "/data/")
	if !ok {
		return Ref{}, fmt.Errorf("vault reference missing /data/ segment: %q", raw)
	}

	if mount == "" || subpath == "" {
		return Ref{}, fmt.Errorf("vault reference has empty mount or subpath: %q", raw)
	}

	return Ref{Mount: mount, Subpath: subpath, Key: key}, nil
}

// String renders ref back into its canonical form.
func (r Ref) String() string {
	base := fmt.Sprintf("vault:%s/data/%s", r.Mount, r.Subpath)
	if r.Key == "" {
		return base
	}
	return fmt.Sprintf("%s#%s", base, r.Key)
}

// EnvValue builds the reference string that the mutation pipeline injects
// into a container's env var for (tenantPath, key), where tenantPath is the
// full "vault:<mount>/data/<subpath>" reference carried on an Intent (e.g.
// "vault:secret/data/app/rabbit" in SPEC_FULL.md's S1 scenario).
func EnvValue(tenantPath, key string) string {
	ref, err := ParseRef(tenantPath)
	if err != nil {
		// tenantPath didn't parse as a full reference; treat it as a bare
		// mount-qualified subpath instead (defensive fallback for callers
		// that pass "<mount>/data/<subpath>" without the scheme).
		path := strings.TrimSuffix(tenantPath, "/")
		return fmt.Sprintf("vault:%s#%s", path, key)
	}

	ref.Key = key
	return ref.String()
}
