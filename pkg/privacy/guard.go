// Package privacy blocks analytics responses that could expose individual users.
package privacy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxDepth is the deepest nesting an analytics payload may use.
const MaxDepth = 3

const (
	productionMessage = "Analytics response blocked: privacy policy violation"
	timestampLayout   = "2006-01-02 15:04:05"
)

var forbiddenKeys = map[string]struct{}{
	"user_id": {}, "email": {}, "username": {}, "name": {}, "first_name": {}, "last_name": {},
	"full_name": {}, "phone": {}, "phone_number": {}, "address": {}, "street": {}, "city": {},
	"zip": {}, "postal_code": {}, "ip": {}, "ip_address": {}, "session_id": {}, "session_token": {},
	"auth_token": {}, "password": {}, "ssn": {}, "date_of_birth": {}, "dob": {}, "birthdate": {},
}

var recordFields = []string{"id", "created_at", "updated_at", "status", "role"}

// ViolationRecorder counts blocked responses.
type ViolationRecorder interface {
	PrivacyViolation(endpoint string)
}

// Check inspects the JSON form of payload and returns every violation found. Scalars and null are always
// safe.
func Check(payload interface{}) ([]string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return checkJSON(raw)
}

func checkJSON(raw []byte) ([]string, error) {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if !isContainer(decoded) {
		return nil, nil
	}
	violations := scan(decoded, "", 0)
	violations = append(violations, recordLikeArrays(decoded)...)
	return violations, nil
}

func scan(value interface{}, path string, depth int) []string {
	if depth > MaxDepth {
		return []string{fmt.Sprintf("Excessive nesting depth (%d levels) at path: %s", depth, path)}
	}

	var violations []string
	for _, child := range children(value) {
		current := child.key
		if path != "" {
			current = path + "." + child.key
		}
		if _, ok := forbiddenKeys[strings.ToLower(child.key)]; ok {
			violations = append(violations, fmt.Sprintf("FORBIDDEN KEY DETECTED: '%s' at path: %s", child.key, current))
		}
		if isContainer(child.value) {
			violations = append(violations, scan(child.value, current, depth+1)...)
		}
	}
	return violations
}

// recordLikeArrays flags top-level lists whose first element looks like a database row.
func recordLikeArrays(value interface{}) []string {
	var violations []string
	for _, child := range children(value) {
		list, ok := child.value.([]interface{})
		if !ok || len(list) == 0 {
			continue
		}
		first, ok := list[0].(map[string]interface{})
		if !ok {
			continue
		}
		hits := 0
		for _, field := range recordFields {
			if _, ok := first[field]; ok {
				hits++
			}
		}
		if hits >= 3 {
			violations = append(violations, fmt.Sprintf(
				"SUSPICIOUS STRUCTURE: Array '%s' contains %d object(s) resembling individual records (fields: %s)",
				child.key, len(list), strings.Join(sortedKeys(first), ", ")))
		}
	}
	return violations
}

type entry struct {
	key   string
	value interface{}
}

func children(value interface{}) []entry {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make([]entry, 0, len(v))
		for _, k := range sortedKeys(v) {
			out = append(out, entry{key: k, value: v[k]})
		}
		return out
	case []interface{}:
		out := make([]entry, 0, len(v))
		for i, item := range v {
			out = append(out, entry{key: strconv.Itoa(i), value: item})
		}
		return out
	default:
		return nil
	}
}

func isContainer(value interface{}) bool {
	switch value.(type) {
	case map[string]interface{}, []interface{}:
		return true
	default:
		return false
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Guard writes analytics payloads only after they pass Check.
type Guard struct {
	production bool
	logger     *zap.Logger
	recorder   ViolationRecorder
	now        func() time.Time
}

// NewGuard constructs a Guard. Outside production, blocked responses carry the violation details.
func NewGuard(production bool, logger *zap.Logger, recorder ViolationRecorder) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{production: production, logger: logger, recorder: recorder, now: time.Now}
}

// Respond writes payload with status, or a 403 privacy_violation body when the payload fails the check.
func (g *Guard) Respond(c *gin.Context, status int, endpoint string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		g.logger.Error("failed to encode analytics payload", zap.String("endpoint", endpoint), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	violations, err := checkJSON(raw)
	if err != nil {
		g.logger.Error("failed to inspect analytics payload", zap.String("endpoint", endpoint), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}
	if len(violations) == 0 {
		c.Data(status, "application/json; charset=utf-8", raw)
		return
	}

	g.logger.Error("privacy violation", zap.String("endpoint", endpoint), zap.Strings("violations", violations))
	if g.recorder != nil {
		g.recorder.PrivacyViolation(endpoint)
	}

	body := gin.H{"success": false, "error": "privacy_violation", "message": productionMessage}
	if !g.production {
		body["message"] = "PII detected in analytics response: " + strings.Join(violations, " | ")
		body["violations"] = violations
		body["endpoint"] = endpoint
		body["timestamp"] = g.now().Format(timestampLayout)
	}
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(http.StatusForbidden, body)
}
