// ABOUTME: Demo deal collection for running without a CRM connection
// ABOUTME: Seeds the store with a representative pipeline across all stages
package store

import (
	"time"

	"github.com/leduardoseverino/performancy/models"
)

// SeedDemo loads the demo collection. Used on fresh sessions when no CRM
// connection is configured.
func (s *Store) SeedDemo() {
	s.SetDeals(DemoDeals())
}

func ts(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

// DemoDeals returns a fresh copy of the demo pipeline.
func DemoDeals() []models.Deal {
	return []models.Deal{
		{
			ID: "1", Name: "Enterprise Software License", Company: "TechCorp Brasil",
			Value: 150000, Stage: models.StageLead, Probability: 10,
			ExpectedCloseDate: "2024-03-15", Owner: "Thais Rui Cano",
			CreatedAt: ts("2024-01-10T10:00:00Z"), UpdatedAt: ts("2024-01-12T14:30:00Z"),
			Contact: &models.Contact{Name: "Thais Cano", Email: "thais.cano@skyone.solutions"},
		},
		{
			ID: "2", Name: "Cloud Migration Project", Company: "Banco Nacional",
			Value: 115000, Stage: models.StageLead, Probability: 10,
			ExpectedCloseDate: "2024-04-01", Owner: "Thais Rui Cano",
			CreatedAt: ts("2024-01-08T09:00:00Z"), UpdatedAt: ts("2024-01-11T16:00:00Z"),
			Contact: &models.Contact{Name: "Ana Costa", Email: "ana.costa@banconacional.com.br"},
		},
		{
			ID: "3", Name: "Data Analytics Platform", Company: "Varejo Express",
			Value: 280000, Stage: models.StageDiscovery, Probability: 20,
			ExpectedCloseDate: "2024-02-28", Owner: "Thais Rui Cano",
			CreatedAt: ts("2024-01-05T11:00:00Z"), UpdatedAt: ts("2024-01-14T10:00:00Z"),
			Contact: &models.Contact{Name: "Roberto Mendes", Email: "roberto@varejoexpress.com.br"},
		},
		{
			ID: "4", Name: "Security Infrastructure", Company: "Seguros Vida",
			Value: 190000, Stage: models.StageDiscovery, Probability: 25,
			ExpectedCloseDate: "2024-03-20", Owner: "Thais Rui Cano",
			CreatedAt: ts("2024-01-03T08:30:00Z"), UpdatedAt: ts("2024-01-13T12:00:00Z"),
			Contact: &models.Contact{Name: "Márcia Lima", Email: "marcia@segurosvida.com.br"},
		},
		{
			ID: "5", Name: "ERP Implementation", Company: "Indústria Metal",
			Value: 250000, Stage: models.StageQualified, Probability: 40,
			ExpectedCloseDate: "2024-02-15", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-12-20T10:00:00Z"), UpdatedAt: ts("2024-01-10T15:00:00Z"),
			Contact: &models.Contact{Name: "Paulo Santos", Email: "paulo@industriametal.com.br"},
		},
		{
			ID: "6", Name: "Mobile App Development", Company: "StartupBR",
			Value: 185000, Stage: models.StageQualified, Probability: 45,
			ExpectedCloseDate: "2024-03-01", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-12-15T14:00:00Z"), UpdatedAt: ts("2024-01-09T11:00:00Z"),
			Contact: &models.Contact{Name: "Fernanda Rocha", Email: "fernanda@startupbr.com"},
		},
		{
			ID: "7", Name: "AI Integration Suite", Company: "HealthTech Solutions",
			Value: 320000, Stage: models.StageProposal, Probability: 60,
			ExpectedCloseDate: "2024-02-10", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-12-01T09:00:00Z"), UpdatedAt: ts("2024-01-08T17:00:00Z"),
			Contact: &models.Contact{Name: "Dr. Marina Alves", Email: "marina@healthtech.com.br"},
		},
		{
			ID: "8", Name: "DevOps Pipeline Setup", Company: "FinanceApp",
			Value: 255000, Stage: models.StageProposal, Probability: 65,
			ExpectedCloseDate: "2024-02-20", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-11-25T10:30:00Z"), UpdatedAt: ts("2024-01-07T14:00:00Z"),
			Contact: &models.Contact{Name: "Lucas Ferreira", Email: "lucas@financeapp.com.br"},
		},
		{
			ID: "9", Name: "Hybrid Cloud Solution", Company: "Energia Verde",
			Value: 380000, Stage: models.StageNegotiation, Probability: 80,
			ExpectedCloseDate: "2024-01-30", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-11-10T11:00:00Z"), UpdatedAt: ts("2024-01-06T16:00:00Z"),
			Contact: &models.Contact{Name: "André Oliveira", Email: "andre@energiaverde.com.br"},
		},
		{
			ID: "10", Name: "Customer 360 Platform", Company: "Telecom Brasil",
			Value: 220000, Stage: models.StageClosedWon, Probability: 100,
			ExpectedCloseDate: "2024-01-05", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-10-15T09:00:00Z"), UpdatedAt: ts("2024-01-05T10:00:00Z"),
			Contact: &models.Contact{Name: "Juliana Prado", Email: "juliana@telecombrasil.com.br"},
		},
		{
			ID: "11", Name: "IoT Fleet Management", Company: "Logística Express",
			Value: 155000, Stage: models.StageClosedWon, Probability: 100,
			ExpectedCloseDate: "2024-01-02", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-10-01T08:00:00Z"), UpdatedAt: ts("2024-01-02T11:30:00Z"),
			Contact: &models.Contact{Name: "Ricardo Nunes", Email: "ricardo@logisticaexpress.com.br"},
		},
		{
			ID: "12", Name: "Legacy System Migration", Company: "Governo Municipal",
			Value: 95000, Stage: models.StageClosedLost, Probability: 0,
			ExpectedCloseDate: "2023-12-20", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-09-15T10:00:00Z"), UpdatedAt: ts("2023-12-20T15:00:00Z"),
			Contact: &models.Contact{Name: "Dr. Antonio Gomes", Email: "antonio@prefeitura.gov.br"},
		},
		{
			ID: "13", Name: "Chatbot Implementation", Company: "E-commerce Plus",
			Value: 75000, Stage: models.StageClosedLost, Probability: 0,
			ExpectedCloseDate: "2023-12-15", Owner: "Thais Rui Cano",
			CreatedAt: ts("2023-09-01T14:00:00Z"), UpdatedAt: ts("2023-12-15T09:00:00Z"),
			Contact: &models.Contact{Name: "Camila Torres", Email: "camila@ecommerceplus.com.br"},
		},
	}
}
