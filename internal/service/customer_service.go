package service

import (
	"context"
	"net/mail"
	"strings"

	"coffee-shop/internal/apperror"
	"coffee-shop/internal/entity"
	"coffee-shop/internal/repository"
)

type CustomerService struct {
	repo *repository.Repository
}

func NewCustomerService(repo *repository.Repository) *CustomerService {
	return &CustomerService{repo: repo}
}

type CustomerInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *CustomerService) CreateCustomer(ctx context.Context, in CustomerInput) (*entity.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, apperror.NewValidation("invalid email %q", in.Email)
	}
	customer := &entity.Customer{Name: name, Email: strings.ToLower(addr.Address)}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id uint) (*entity.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	return s.repo.ListCustomers(ctx)
}
