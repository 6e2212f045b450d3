// Package chat implements the keyword-based assistant that answers common
// service questions in the citizen's preferred language, and records each
// conversation as a session.
package chat

import (
	"strings"

	"govportal/internal/models"
)

// reply pairs a message keyword with its canned answer. Entries are checked
// in table order, first match wins; the final help entry doubles as the
// default answer.
type reply struct {
	keyword string
	answer  string
}

var replies = map[models.Language][]reply{
	models.LanguageEnglish: {
		{"nic", "To renew your NIC, you need: Old NIC, 2 passport photos, and application form. Processing time: 7-10 days."},
		{"passport", "For passport renewal: Old passport, NIC, photos, and application form. Processing time: 10-15 days."},
		{"birth certificate", "For birth certificate: Parents ID, hospital records, and application form. Processing time: 3-5 days."},
		{"samurdhi", "For Samurdhi benefits: NIC, income certificate, and application form. Processing time: 15-20 days."},
		{"help", "I can help you with: NIC renewal, passport, birth certificate, Samurdhi benefits, business registration, and more. What do you need?"},
	},
	models.LanguageSinhala: {
		{"nic", "ඔබගේ NIC අලුත් කිරීමට අවශ්‍ය: පරණ NIC, ඡායාරූප 2ක්, සහ අයදුම් පත්‍රය. සැකසීමේ කාලය: දින 7-10."},
		{"passport", "Passport අලුත් කිරීමට: පරණ passport, NIC, ඡායාරූප, සහ අයදුම් පත්‍රය. සැකසීමේ කාලය: දින 10-15."},
		{"help", "මට ඔබට උදව් කළ හැක්කේ: NIC අලුත් කිරීම, passport, උපත සහතිකය, Samurdhi ප්‍රතිලාභ, ව්‍යාපාර ලියාපදිංචිය, සහ තවත් බොහෝ දේ. ඔබට අවශ්‍ය කුමක්ද?"},
	},
	models.LanguageTamil: {
		{"nic", "உங்கள் NIC புதுப்பிக்க: பழைய NIC, 2 பாஸ்போர்ட் புகைப்படங்கள், மற்றும் விண்ணப்ப படிவம். செயலாக்க நேரம்: 7-10 நாட்கள்."},
		{"passport", "Passport புதுப்பிக்க: பழைய passport, NIC, புகைப்படங்கள், மற்றும் விண்ணப்ப படிவம். செயலாக்க நேரம்: 10-15 நாட்கள்."},
		{"help", "நான் உங்களுக்கு உதவ முடியும்: NIC புதுப்பித்தல், passport, பிறப்பு சான்றிதழ், Samurdhi நன்மைகள், வணிக பதிவு, மற்றும் பல. உங்களுக்கு என்ன தேவை?"},
	},
}

// Respond answers a message in the given language. Unknown languages fall
// back to English; messages matching no keyword get the help answer.
func Respond(message string, language models.Language) (string, models.Language) {
	if !language.Valid() {
		language = models.LanguageEnglish
	}
	table := replies[language]

	lower := strings.ToLower(message)
	for _, r := range table {
		if strings.Contains(lower, r.keyword) {
			return r.answer, language
		}
	}
	return table[len(table)-1].answer, language
}
