package permissions

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Permission lists the roles allowed on one route pattern. An empty role list admits any signed-in user.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]int
}

func key(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up a chi route pattern. "/v1/rooms" and "/v1/rooms/" resolve to the same entry.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx, ok := r.index[key(path, method)]
	if !ok {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// Load decodes a permission table. Duplicate routes are rejected.
func Load(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, fmt.Errorf("failed to decode permissions: %w", err)
	}

	permissions.index = make(map[string]int, len(permissions.Endpoints))

	for i, endpoint := range permissions.Endpoints {
		k := key(endpoint.Path, endpoint.Method)
		if _, exists := permissions.index[k]; exists {
			return nil, fmt.Errorf("duplicate permission for %s", k)
		}

		permissions.index[k] = i
	}

	return &permissions, nil
}

func Get() *PermissionData {
	permissions, err := Load(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to load embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
