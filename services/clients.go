package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"legalis-project/microservices/tasks-service/models"

	"github.com/sony/gobreaker"
)

// userDirectory resolves user references from the users service.
type userDirectory interface {
	GetUser(userID string) (*models.Member, error)
	ListUsers() ([]models.Member, error)
}

// caseDirectory resolves case references from the cases service.
type caseDirectory interface {
	GetCaseSummary(caseID string) (*models.CaseSummary, error)
}

// UsersClient talks to the users service through a circuit breaker.
type UsersClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
}

func NewUsersClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *UsersClient {
	return &UsersClient{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient, Breaker: breaker}
}

func (c *UsersClient) GetUser(userID string) (*models.Member, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.BaseURL, userID)

	result, err := c.Breaker.Execute(func() (interface{}, error) {
		resp, err := c.HTTPClient.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, models.NotFound("userId", "user not found: "+userID)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("users service returned status %d", resp.StatusCode)
		}

		var member models.Member
		if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
			return nil, fmt.Errorf("failed to decode user response: %v", err)
		}
		return &member, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Member), nil
}

func (c *UsersClient) ListUsers() ([]models.Member, error) {
	url := fmt.Sprintf("%s/api/users", c.BaseURL)

	result, err := c.Breaker.Execute(func() (interface{}, error) {
		resp, err := c.HTTPClient.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("users service returned status %d", resp.StatusCode)
		}

		var members []models.Member
		if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
			return nil, fmt.Errorf("failed to decode users response: %v", err)
		}
		return members, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Member), nil
}

// CasesClient talks to the cases service through a circuit breaker. Cases
// are display-only from this service's point of view.
type CasesClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
}

func NewCasesClient(baseURL string, httpClient *http.Client, breaker *gobreaker.CircuitBreaker) *CasesClient {
	return &CasesClient{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: httpClient, Breaker: breaker}
}

func (c *CasesClient) GetCaseSummary(caseID string) (*models.CaseSummary, error) {
	url := fmt.Sprintf("%s/api/cases/%s/summary", c.BaseURL, caseID)

	result, err := c.Breaker.Execute(func() (interface{}, error) {
		resp, err := c.HTTPClient.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, models.NotFound("caseId", "case not found: "+caseID)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("cases service returned status %d", resp.StatusCode)
		}

		var summary models.CaseSummary
		if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode case response: %v", err)
		}
		return &summary, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.CaseSummary), nil
}
