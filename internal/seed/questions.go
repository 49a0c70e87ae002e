// Package seed reads the quiz question set from YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"tebak-kode-bot/internal/domain"
)

//go:embed questions.yaml
var defaultQuestions []byte

type questionFile struct {
	Questions []questionEntry `yaml:"questions"`
}

type questionEntry struct {
	Number  int      `yaml:"number"`
	Text    string   `yaml:"text"`
	Image   string   `yaml:"image"`
	Options []string `yaml:"options"`
	Answer  string   `yaml:"answer"`
}

// Load reads questions from path, or the embedded default set when path is empty.
func Load(path string) ([]domain.Question, error) {
	if path == "" {
		return Parse(defaultQuestions)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question seed: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a question set. The result is ordered by number.
func Parse(data []byte) ([]domain.Question, error) {
	var file questionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSeed, err)
	}

	seen := make(map[int]bool, len(file.Questions))
	questions := make([]domain.Question, 0, len(file.Questions))
	for _, entry := range file.Questions {
		if entry.Number < 1 || entry.Number > domain.TotalQuestions {
			return nil, fmt.Errorf("%w: question number %d out of range", domain.ErrInvalidSeed, entry.Number)
		}
		if seen[entry.Number] {
			return nil, fmt.Errorf("%w: question %d defined twice", domain.ErrInvalidSeed, entry.Number)
		}
		seen[entry.Number] = true
		if entry.Text == "" || entry.Answer == "" {
			return nil, fmt.Errorf("%w: question %d needs text and answer", domain.ErrInvalidSeed, entry.Number)
		}
		if len(entry.Options) > 4 {
			return nil, fmt.Errorf("%w: question %d has more than four options", domain.ErrInvalidSeed, entry.Number)
		}
		questions = append(questions, toQuestion(entry))
	}
	if len(questions) != domain.TotalQuestions {
		return nil, fmt.Errorf("%w: expected %d questions, got %d", domain.ErrInvalidSeed, domain.TotalQuestions, len(questions))
	}

	sort.Slice(questions, func(i, j int) bool { return questions[i].Number < questions[j].Number })
	return questions, nil
}

// ByNumber indexes a question set for the static loader.
func ByNumber(questions []domain.Question) map[int]domain.Question {
	out := make(map[int]domain.Question, len(questions))
	for _, q := range questions {
		out[q.Number] = q
	}
	return out
}

func toQuestion(entry questionEntry) domain.Question {
	var opts [4]string
	copy(opts[:], entry.Options)
	return domain.Question{
		Number:  entry.Number,
		Text:    entry.Text,
		Image:   entry.Image,
		OptionA: opts[0],
		OptionB: opts[1],
		OptionC: opts[2],
		OptionD: opts[3],
		Answer:  entry.Answer,
	}
}
