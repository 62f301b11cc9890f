package script

import (
	"fmt"
	"math/rand"
)

const dialoguePromptEN = `You are writing a podcast dialogue between two speakers about the book "%s".
HOST leads the conversation and asks questions; GUEST is an expert on the book and answers in depth.
Base the dialogue strictly on this summary:
---
%s
---
Rules:
- Around %d words in total.
- Speakers strictly alternate between curiosity and explanation; both must carry real weight in the conversation.
- Return a JSON array of objects with fields "speaker" ("HOST" or "GUEST") and "text".
- No stage directions, no sound effects, no markdown.`

const dialoguePromptVI = `Bạn đang viết kịch bản podcast đối thoại giữa hai người về cuốn sách "%s".
HOST dẫn dắt cuộc trò chuyện và đặt câu hỏi; GUEST là chuyên gia về cuốn sách và trả lời sâu.
Dựa hoàn toàn vào bản tóm tắt sau:
---
%s
---
Yêu cầu:
- Tổng cộng khoảng %d từ.
- Cả hai người nói đều phải đóng góp thực chất vào cuộc trò chuyện.
- Trả về mảng JSON gồm các object với trường "speaker" ("HOST" hoặc "GUEST") và "text".
- Không có chỉ dẫn sân khấu, không hiệu ứng âm thanh, không markdown.`

func buildPrompt(summary, title string, targetWords int, language string) string {
	tmpl := dialoguePromptEN
	if language == "vi" {
		tmpl = dialoguePromptVI
	}
	return fmt.Sprintf(tmpl, title, summary, targetWords)
}

// Intro and outro turn templates, each formatted with the book title.
var introTemplates = map[string][]string{
	"en": {
		"Welcome to the show! Today we are diving into %q, and I think you are going to love this one.",
		"Hello and welcome back. This episode is all about %q, so settle in.",
		"Great to have you with us. We are unpacking %q today, chapter by chapter.",
	},
	"vi": {
		"Chào mừng các bạn đến với chương trình! Hôm nay chúng ta sẽ cùng khám phá cuốn %q.",
		"Xin chào và chào mừng trở lại. Tập này dành trọn cho cuốn %q.",
	},
}

var outroTemplates = map[string][]string{
	"en": {
		"That was our conversation about %q. Thanks for listening, and see you next time.",
		"And that wraps up %q for today. If you enjoyed this, share it with a friend.",
		"That is all we have on %q. Until the next episode, keep reading.",
	},
	"vi": {
		"Đó là cuộc trò chuyện của chúng ta về cuốn %q. Cảm ơn các bạn đã lắng nghe.",
		"Vậy là khép lại cuốn %q cho hôm nay. Hẹn gặp lại ở tập sau.",
	},
}

func pickTemplate(rng *rand.Rand, templates map[string][]string, language string) string {
	set, ok := templates[language]
	if !ok || len(set) == 0 {
		set = templates["en"]
	}
	return set[rng.Intn(len(set))]
}
