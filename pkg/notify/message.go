package notify

import (
	"bytes"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v2"

	"github.com/openshift/birthday-bot/pkg/employee"
)

const (
	// DefaultSubject is the subject used when the message config sets none
	DefaultSubject = "Happy birthday!"
	// DefaultGreeting is the greeting template used when the message config sets none.
	// It is rendered with the recipient employee as data.
	DefaultGreeting = "Happy birthday, dear {{ .FirstName }}!"
)

// Message is a greeting addressed to one employee
type Message struct {
	Subject   string
	Body      string
	Recipient employee.Employee
}

// MessageConfig holds the templates used to build greetings. Templates are
// rendered with the recipient employee as data.
type MessageConfig struct {
	Subject  string `yaml:"subject"`
	Greeting string `yaml:"greeting"`
}

// LoadMessageConfig reads a message config from a YAML file. An empty path
// returns the default config; fields missing from the file keep their defaults.
func LoadMessageConfig(path string) (*MessageConfig, error) {
	config := &MessageConfig{Subject: DefaultSubject, Greeting: DefaultGreeting}
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message config: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse message config %s: %w", path, err)
	}
	return config, nil
}

// Formatter renders birthday messages
type Formatter struct {
	subject  *template.Template
	greeting *template.Template
}

// NewFormatter compiles the templates of config
func NewFormatter(config *MessageConfig) (*Formatter, error) {
	subject, err := template.New("subject").Option("missingkey=error").Parse(config.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject template: %w", err)
	}
	greeting, err := template.New("greeting").Option("missingkey=error").Parse(config.Greeting)
	if err != nil {
		return nil, fmt.Errorf("invalid greeting template: %w", err)
	}
	return &Formatter{subject: subject, greeting: greeting}, nil
}

// Format builds the message for recipient
func (f *Formatter) Format(recipient employee.Employee) (Message, error) {
	var subject, body bytes.Buffer
	if err := f.subject.Execute(&subject, recipient); err != nil {
		return Message{}, fmt.Errorf("failed to render subject for %s: %w", recipient.Email, err)
	}
	if err := f.greeting.Execute(&body, recipient); err != nil {
		return Message{}, fmt.Errorf("failed to render greeting for %s: %w", recipient.Email, err)
	}
	return Message{Subject: subject.String(), Body: body.String(), Recipient: recipient}, nil
}
