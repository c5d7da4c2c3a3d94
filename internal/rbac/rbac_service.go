package rbac

import (
	"log"
	"sync"

	"github.com/casbin/casbin/v2"
	"gorm.io/gorm"

	"go-gatepass/internal/domain"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	ReloadPolicy() error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles() ([]domain.RoleResponse, error)
	GetRole(id string) (*domain.RoleResponse, error)
	CreateRole(req CreateRoleRequest) (*domain.RoleResponse, error)
	UpdateRole(id string, req UpdateRoleRequest) (*domain.RoleResponse, error)
	DeleteRole(id string) error

	ListPermissions() ([]domain.PermissionResponse, error)
	UpdateRolePermissions(roleID string, permIDs []string) error
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(repo Repository, enforcer *casbin.Enforcer) Service {
	return &service{
		repo:     repo,
		enforcer: enforcer,
	}
}

func (s *service) ReloadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reloadPolicyUnlocked()
}

// Policy dibaca ulang dari DB setiap kali, supaya perubahan permission
// langsung berlaku tanpa restart.
func (s *service) reloadPolicyUnlocked() error {
	s.enforcer.ClearPolicy()

	// Load grouping policy
	userRoles, err := s.repo.GetUserRoles()
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		_, err := s.enforcer.AddGroupingPolicy(
			ur.UserID,
			ur.Role,
		)
		if err != nil {
			return err
		}
	}

	// Load permission policy
	rolePerms, err := s.repo.GetRolePermissions()
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		_, err := s.enforcer.AddPolicy(
			rp.Role,
			rp.Resource,
			rp.Action,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.reloadPolicyUnlocked(); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(
		req.UserID,
		req.Resource,
		req.Action,
	)
	if err != nil {
		log.Printf("rbac enforce result: user_id=%s resource=%s action=%s err=%v", req.UserID, req.Resource, req.Action, err)
		return false, err
	}

	if !allowed {
		log.Printf("rbac enforce result: user_id=%s resource=%s action=%s allowed=false", req.UserID, req.Resource, req.Action)
	}

	return allowed, nil
}

func (s *service) ListRoles() ([]domain.RoleResponse, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, err
	}

	result := make([]domain.RoleResponse, 0, len(roles))
	for _, role := range roles {
		resp, err := s.mapRole(role)
		if err != nil {
			return nil, err
		}
		result = append(result, *resp)
	}
	return result, nil
}

func (s *service) GetRole(id string) (*domain.RoleResponse, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}
	return s.mapRole(*role)
}

func (s *service) CreateRole(req CreateRoleRequest) (*domain.RoleResponse, error) {
	if _, err := s.repo.GetRoleByName(req.Name); err == nil {
		return nil, gorm.ErrDuplicatedKey
	}

	role := &RoleRow{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(role); err != nil {
		return nil, err
	}
	return s.mapRole(*role)
}

func (s *service) UpdateRole(id string, req UpdateRoleRequest) (*domain.RoleResponse, error) {
	role, err := s.repo.GetRoleByID(id)
	if err != nil {
		return nil, err
	}

	role.Name = req.Name
	role.Description = req.Description

	if err := s.repo.UpdateRole(role); err != nil {
		return nil, err
	}
	return s.mapRole(*role)
}

func (s *service) DeleteRole(id string) error {
	if _, err := s.repo.GetRoleByID(id); err != nil {
		return err
	}
	return s.repo.DeleteRole(id)
}

func (s *service) ListPermissions() ([]domain.PermissionResponse, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}

	result := make([]domain.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		result = append(result, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}
	return result, nil
}

func (s *service) UpdateRolePermissions(roleID string, permIDs []string) error {
	if _, err := s.repo.GetRoleByID(roleID); err != nil {
		return err
	}
	return s.repo.UpdateRolePermissions(roleID, permIDs)
}

func (s *service) mapRole(role RoleRow) (*domain.RoleResponse, error) {
	perms, err := s.repo.GetPermissionsByRoleID(role.ID)
	if err != nil {
		return nil, err
	}

	permNames := make([]string, 0, len(perms))
	for _, p := range perms {
		permNames = append(permNames, p.Resource+":"+p.Action)
	}

	return &domain.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: permNames,
	}, nil
}
