package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/crmdesk/ticketd/internal/config"
	"github.com/crmdesk/ticketd/internal/domain"
	"github.com/crmdesk/ticketd/pkg/errorutil"
)

// memAgentRepo mimics the SQL repository, including the RETURNING
// clause that fills in id and created_at.
type memAgentRepo struct {
	mu     sync.Mutex
	agents []domain.Agent
	nextID int
}

func (r *memAgentRepo) Create(_ context.Context, agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	agent.ID = "agent-" + strconv.Itoa(r.nextID)
	agent.CreatedAt = time.Now()
	r.agents = append(r.agents, *agent)
	return nil
}

func (r *memAgentRepo) GetByID(_ context.Context, id string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agents {
		if r.agents[i].ID == id {
			copied := r.agents[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memAgentRepo) GetByEmail(_ context.Context, email string) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.agents {
		if r.agents[i].Email == email {
			copied := r.agents[i]
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}
}

func TestRegisterAgentAndLogin(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(testAuthConfig(), &memAgentRepo{})
	ctx := context.Background()

	agent, err := svc.RegisterAgent(ctx, RegisterAgentInput{
		Email:    " Support@Example.COM ",
		Name:     "First Line",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}
	if agent.Email != "support@example.com" {
		t.Errorf("email not normalized: %q", agent.Email)
	}
	if agent.Role != domain.AgentRoleAgent {
		t.Errorf("role: got %q, want default %q", agent.Role, domain.AgentRoleAgent)
	}
	if agent.PasswordHash == "hunter2hunter2" || agent.PasswordHash == "" {
		t.Error("password stored unhashed")
	}

	result, err := svc.Login(ctx, "support@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Error("empty token")
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Error("token already expired")
	}

	claims, err := svc.TokenManager().ParseToken(result.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.AgentID != agent.ID {
		t.Errorf("claims agent_id: got %q, want %q", claims.AgentID, agent.ID)
	}
}

func TestRegisterAgentValidation(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(testAuthConfig(), &memAgentRepo{})
	ctx := context.Background()

	if _, err := svc.RegisterAgent(ctx, RegisterAgentInput{Email: "not-an-email", Password: "longenough"}); !errorutil.IsCode(err, errorutil.CodeValidationFailed) {
		t.Errorf("bad email: got %v, want VALIDATION_FAILED", err)
	}
	if _, err := svc.RegisterAgent(ctx, RegisterAgentInput{Email: "a@b.c", Password: "short"}); !errorutil.IsCode(err, errorutil.CodeValidationFailed) {
		t.Errorf("short password: got %v, want VALIDATION_FAILED", err)
	}
}

func TestRegisterAgentDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(testAuthConfig(), &memAgentRepo{})
	ctx := context.Background()

	input := RegisterAgentInput{Email: "dup@example.com", Password: "hunter2hunter2"}
	if _, err := svc.RegisterAgent(ctx, input); err != nil {
		t.Fatalf("first RegisterAgent: %v", err)
	}
	if _, err := svc.RegisterAgent(ctx, input); !errorutil.IsCode(err, errorutil.CodeConflict) {
		t.Errorf("duplicate: got %v, want CONFLICT", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc := NewAuthService(testAuthConfig(), &memAgentRepo{})
	ctx := context.Background()

	if _, err := svc.RegisterAgent(ctx, RegisterAgentInput{Email: "a@b.c", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("RegisterAgent: %v", err)
	}
	if _, err := svc.Login(ctx, "a@b.c", "wrong-password"); !errorutil.IsCode(err, errorutil.CodeUnauthenticated) {
		t.Errorf("wrong password: got %v, want UNAUTHENTICATED", err)
	}
	if _, err := svc.Login(ctx, "ghost@b.c", "hunter2hunter2"); !errorutil.IsCode(err, errorutil.CodeUnauthenticated) {
		t.Errorf("unknown email: got %v, want UNAUTHENTICATED", err)
	}
}
