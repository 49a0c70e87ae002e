package app

import (
	"fmt"
	"strconv"

	"tebak-kode-bot/internal/domain"
)

const (
	stickerPackage = "1"

	stickerWelcome = "3"
	stickerNudge   = "106"
	stickerFailed  = "100"
	stickerPassed  = "114"

	welcomeText  = "Salam kenal, %s!\nSilakan kirim pesan \"MULAI\" untuk memulai kuis Tebak Kode."
	reminderText = "Silakan kirim pesan \"MULAI\" untuk memulai kuis."
	scoreText    = "Skormu %d"
	failedText   = "Wkwkwk! Nyerah? Ketik \"MULAI\" untuk bermain lagi!"
	passedText   = "Great! Mantap bro! Ketik \"MULAI\" untuk bermain lagi!"

	questionAltText = "Gunakan mobile app untuk melihat soal"
)

func welcomeMessages(displayName string) []domain.Message {
	return []domain.Message{
		domain.TextMessage{Text: fmt.Sprintf(welcomeText, displayName)},
		domain.StickerMessage{PackageID: stickerPackage, StickerID: stickerWelcome},
	}
}

func reminderMessage() domain.Message {
	return domain.TextMessage{Text: reminderText}
}

func nudgeMessages() []domain.Message {
	return []domain.Message{
		domain.StickerMessage{PackageID: stickerPackage, StickerID: stickerNudge},
		reminderMessage(),
	}
}

func questionMessage(q domain.Question) domain.Message {
	choices := q.Choices()
	actions := make([]domain.Action, 0, len(choices))
	for _, choice := range choices {
		actions = append(actions, domain.Action{Label: choice, Text: choice})
	}
	return domain.ButtonsMessage{
		AltText:  questionAltText,
		Title:    strconv.Itoa(q.Number) + "/" + strconv.Itoa(domain.TotalQuestions),
		Text:     q.Text,
		ImageURL: q.Image,
		Actions:  actions,
	}
}

func resultMessages(score int) []domain.Message {
	sticker, closing := stickerFailed, failedText
	if domain.Passed(score) {
		sticker, closing = stickerPassed, passedText
	}
	return []domain.Message{
		domain.TextMessage{Text: fmt.Sprintf(scoreText, score)},
		domain.StickerMessage{PackageID: stickerPackage, StickerID: sticker},
		domain.TextMessage{Text: closing},
	}
}
