package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restaurant/internal/domain"
)

// RegisterRequest — данные регистрации клиента.
type RegisterRequest struct {
	Name    string `validate:"required,max=120"`
	Email   string `validate:"required,email"`
	Phone   string `validate:"omitempty,max=32"`
	Address string `validate:"omitempty,max=255"`
}

// Service — справочник клиентов.
type Service struct {
	repo     domain.CustomerRepository
	validate *validator.Validate
	logger   *log.Entry
}

// NewService создаёт сервис клиентов.
func NewService(repo domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.WithField("component", "customer")
	}
	return &Service{repo: repo, validate: validator.New(), logger: logger}
}

// Register регистрирует клиента. Если email уже занят, возвращает существующего
// клиента и created=false.
func (s *Service) Register(_ context.Context, req RegisterRequest) (domain.Customer, bool, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = domain.NormalizeEmail(req.Email)

	if err := s.validate.Struct(req); err != nil {
		return domain.Customer{}, false, translate(err)
	}

	existing, err := s.repo.GetByEmail(req.Email)
	switch {
	case err == nil:
		s.logger.WithField("customer_id", existing.ID).Debug("customer already registered")
		return existing, false, nil
	case !errors.Is(err, domain.ErrCustomerNotFound):
		return domain.Customer{}, false, fmt.Errorf("lookup customer: %w", err)
	}

	c, err := domain.NewCustomer(req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return domain.Customer{}, false, err
	}
	if err := s.repo.Save(c); err != nil {
		return domain.Customer{}, false, fmt.Errorf("save customer: %w", err)
	}

	s.logger.WithField("customer_id", c.ID).Info("customer registered")
	return c, true, nil
}

// Get возвращает клиента по ID.
func (s *Service) Get(_ context.Context, id string) (domain.Customer, error) {
	return s.repo.Get(id)
}

// GetByEmail возвращает клиента по email.
func (s *Service) GetByEmail(_ context.Context, email string) (domain.Customer, error) {
	return s.repo.GetByEmail(email)
}

// List возвращает всех клиентов в порядке регистрации.
func (s *Service) List(_ context.Context) ([]domain.Customer, error) {
	return s.repo.List()
}

// UpdateContact обновляет телефон и адрес клиента.
func (s *Service) UpdateContact(_ context.Context, id, phone, address string) (domain.Customer, error) {
	c, err := s.repo.Get(id)
	if err != nil {
		return domain.Customer{}, err
	}
	c.UpdateContact(phone, address)
	if err := s.repo.Save(c); err != nil {
		return domain.Customer{}, fmt.Errorf("save customer: %w", err)
	}
	return c, nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidCustomer, err)
	}
	for _, fe := range verrs {
		if fe.Field() == "Email" {
			return fmt.Errorf("%w: %s", domain.ErrInvalidEmail, fe.Value())
		}
	}
	return fmt.Errorf("%w: %s failed on %s", domain.ErrInvalidCustomer, verrs[0].Field(), verrs[0].Tag())
}
