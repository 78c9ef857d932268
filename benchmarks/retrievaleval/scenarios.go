// ABOUTME: Benchmark scenario data structures for retrieval quality evaluation
// ABOUTME: Defines seed data, queries, and ground truth expectations for each scenario

package retrievaleval

import "github.com/mandelbro/devcontext-local-sub001/internal/models"

// Scenario represents a complete retrieval quality benchmark
type Scenario struct {
	ID            string
	Name          string
	Description   string
	Entities      []SeedEntity
	Documents     []SeedDocument
	Relationships []SeedRelationship
	Queries       []QueryCase
}

// SeedEntity describes a code entity to index before running queries
type SeedEntity struct {
	ID       string
	FilePath string
	Name     string
	Type     models.EntityType
	Content  string
	Summary  string
	Keywords []SeedKeyword
}

// SeedKeyword is a weighted AI keyword attached to a seed entity
type SeedKeyword struct {
	Keyword string
	Weight  float64
}

// SeedDocument describes a project document to index before running queries
type SeedDocument struct {
	ID       string
	FilePath string
	Title    string
	Content  string
	Summary  string
}

// SeedRelationship is a resolved edge between two seed entities
type SeedRelationship struct {
	SourceID string
	TargetID string
	Type     models.RelationshipType
}

// QueryCase defines one query and its ground truth
type QueryCase struct {
	Query       string
	TokenBudget int

	// ExpectedIDs are snippet IDs that MUST appear in the result
	ExpectedIDs []string
	// ForbiddenIDs are snippet IDs that MUST NOT appear in the result
	ForbiddenIDs []string
}

// Result represents the outcome of a benchmark scenario
type Result struct {
	ScenarioID     string
	ScenarioName   string
	PrecisionScore float64
	RecallScore    float64
	OverallScore   float64
	Status         string // "PASS" or "FAIL"
	Details        map[string]interface{}
	ErrorMessage   string
}

// GetScenarioKeywordRouting verifies that keyword and text search route
// queries to the right entities and away from unrelated ones.
func GetScenarioKeywordRouting() Scenario {
	return Scenario{
		ID:          "keyword_routing",
		Name:        "Keyword Routing",
		Description: "Queries about one subsystem must not surface unrelated entities",
		Entities: []SeedEntity{
			{
				ID:       "ent_bench_validate_token",
				FilePath: "internal/auth/token.go",
				Name:     "ValidateToken",
				Type:     models.EntityFunction,
				Content:  "func ValidateToken(token string) (*Session, error) { claims, err := decodeClaims(token); if err != nil { return nil, err }; return sessionFromClaims(claims) }",
				Summary:  "Validates a session token and returns the associated session",
				Keywords: []SeedKeyword{
					{Keyword: "token", Weight: 0.9},
					{Keyword: "session", Weight: 0.8},
					{Keyword: "validation", Weight: 0.7},
				},
			},
			{
				ID:       "ent_bench_parse_config",
				FilePath: "internal/config/parse.go",
				Name:     "ParseConfig",
				Type:     models.EntityFunction,
				Content:  "func ParseConfig(path string) (*Config, error) { data, err := os.ReadFile(path); if err != nil { return nil, err }; return decodeYAML(data) }",
				Summary:  "Reads and decodes the YAML configuration file",
				Keywords: []SeedKeyword{
					{Keyword: "config", Weight: 0.9},
					{Keyword: "yaml", Weight: 0.8},
				},
			},
		},
		Queries: []QueryCase{
			{
				Query:        "token session validation",
				TokenBudget:  2000,
				ExpectedIDs:  []string{"ent_bench_validate_token"},
				ForbiddenIDs: []string{"ent_bench_parse_config"},
			},
			{
				Query:        "yaml config parsing",
				TokenBudget:  2000,
				ExpectedIDs:  []string{"ent_bench_parse_config"},
				ForbiddenIDs: []string{"ent_bench_validate_token"},
			},
		},
	}
}

// GetScenarioRelationshipExpansion verifies that entities reachable only
// through the relationship graph are pulled in alongside direct hits.
func GetScenarioRelationshipExpansion() Scenario {
	return Scenario{
		ID:          "relationship_expansion",
		Name:        "Relationship Expansion",
		Description: "A callee with no textual overlap must still surface via its caller",
		Entities: []SeedEntity{
			{
				ID:       "ent_bench_handle_login",
				FilePath: "internal/auth/login.go",
				Name:     "HandleLogin",
				Type:     models.EntityFunction,
				Content:  "func HandleLogin(w http.ResponseWriter, r *http.Request) { creds := readCredentials(r); session, err := authenticate(creds); writeSession(w, session, err) }",
				Summary:  "HTTP handler that authenticates login credentials",
				Keywords: []SeedKeyword{
					{Keyword: "login", Weight: 0.9},
					{Keyword: "authenticate", Weight: 0.8},
				},
			},
			{
				ID:       "ent_bench_hash_password",
				FilePath: "internal/auth/hash.go",
				Name:     "hashSecret",
				Type:     models.EntityFunction,
				Content:  "func hashSecret(raw []byte, salt []byte) []byte { h := sha256.New(); h.Write(salt); h.Write(raw); return h.Sum(nil) }",
				Summary:  "Derives a salted digest for stored secrets",
			},
		},
		Relationships: []SeedRelationship{
			{SourceID: "ent_bench_handle_login", TargetID: "ent_bench_hash_password", Type: models.RelCalls},
		},
		Queries: []QueryCase{
			{
				Query:       "login authenticate credentials",
				TokenBudget: 2000,
				ExpectedIDs: []string{"ent_bench_handle_login", "ent_bench_hash_password"},
			},
		},
	}
}

// GetScenarioDocumentRecall verifies that project documents surface for
// prose queries while code entities from other subsystems stay out.
func GetScenarioDocumentRecall() Scenario {
	return Scenario{
		ID:          "document_recall",
		Name:        "Document Recall",
		Description: "Architecture prose must be retrievable next to code entities",
		Entities: []SeedEntity{
			{
				ID:       "ent_bench_retry_worker",
				FilePath: "internal/jobs/worker.go",
				Name:     "runWorker",
				Type:     models.EntityFunction,
				Content:  "func runWorker(jobs <-chan Job) { for job := range jobs { process(job) } }",
			},
		},
		Documents: []SeedDocument{
			{
				ID:       "doc_bench_architecture",
				FilePath: "docs/architecture.md",
				Title:    "Architecture Overview",
				Content:  "The indexing pipeline walks the repository, extracts entities, and stores them in the knowledge base. Retrieval ranks candidates from several sources and compresses them into a token budget.",
				Summary:  "High-level architecture of the indexing and retrieval pipeline",
			},
		},
		Queries: []QueryCase{
			{
				Query:        "indexing pipeline architecture retrieval",
				TokenBudget:  2000,
				ExpectedIDs:  []string{"doc_bench_architecture"},
				ForbiddenIDs: []string{"ent_bench_retry_worker"},
			},
		},
	}
}

// GetAllScenarios returns every benchmark scenario
func GetAllScenarios() []Scenario {
	return []Scenario{
		GetScenarioKeywordRouting(),
		GetScenarioRelationshipExpansion(),
		GetScenarioDocumentRecall(),
	}
}
