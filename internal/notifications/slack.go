package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type SlackService struct {
	logger     *logrus.Logger
	webhookURL string
	client     *http.Client
}

type SlackMessage struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Attachment struct {
	Color  string  `json:"color,omitempty"`
	Text   string  `json:"text,omitempty"`
	Fields []Field `json:"fields,omitempty"`
	Footer string  `json:"footer,omitempty"`
	Ts     int64   `json:"ts,omitempty"`
}

type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func NewSlackService(logger *logrus.Logger) (*SlackService, error) {
	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if webhookURL == "" {
		return nil, fmt.Errorf("SLACK_WEBHOOK_URL environment variable is not set")
	}

	return &SlackService{
		logger:     logger,
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (s *SlackService) SendRunNotification(run types.ScrapeRun) error {
	color := "good"
	icon := "✅"
	switch run.Status {
	case types.RunPartial:
		color = "warning"
		icon = "⚠️"
	case types.RunFailed:
		color = "danger"
		icon = "❌"
	}

	jobTitle := cases.Title(language.English).String(strings.ReplaceAll(run.Job, "-", " "))

	mainMessage := fmt.Sprintf("%s Scrape Finished: %s\nStatus: %s", icon, jobTitle, run.Status)

	fields := []Field{
		{
			Title: "Job",
			Value: run.Job,
			Short: true,
		},
		{
			Title: "Items",
			Value: fmt.Sprintf("%d", run.Items),
			Short: true,
		},
	}

	if run.Failed > 0 {
		fields = append(fields, Field{
			Title: "Failed",
			Value: fmt.Sprintf("%d", run.Failed),
			Short: true,
		})
	}

	if run.FinishedAt != nil {
		fields = append(fields, Field{
			Title: "Duration",
			Value: utils.FormatElapsed(run.FinishedAt.Sub(run.StartedAt)),
			Short: true,
		})
	}

	message := SlackMessage{
		Text: mainMessage,
		Attachments: []Attachment{
			{
				Color:  color,
				Fields: fields,
				Footer: fmt.Sprintf("Run: %s | %s",
					run.ID,
					time.Now().Format("Mon, 02 Jan 2006 15:04:05 MST")),
				Ts: time.Now().Unix(),
			},
		},
	}

	if run.Error != "" {
		message.Attachments[0].Text = run.Error
	}

	return s.SendSlackMessage(&message)
}

func (s *SlackService) SendSlackMessage(message *SlackMessage) error {
	if s.webhookURL == "" {
		return fmt.Errorf("slack webhook URL not configured")
	}

	jsonMessage, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshaling slack message: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewBuffer(jsonMessage))
	if err != nil {
		return fmt.Errorf("error sending slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API returned non-200 status code: %d", resp.StatusCode)
	}

	s.logger.Infof("Successfully sent message to Slack")
	return nil
}
