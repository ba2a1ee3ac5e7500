package studio

import (
	"AdStudio/internal/catalog"
	"AdStudio/internal/service/script"
	"strings"
)

// Reduce чистая функция перехода. Не выполняет ввод-вывод: всё внешнее возвращается эффектами.
func Reduce(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case IdentityResolved:
		s.Resolving = false
		s.Identity = e.IP
		s.Used = e.Used
		return s, nil

	case ScriptEdited:
		s.Script = e.Text
		return s, nil

	case ModeSwitched:
		target := ModeSolo
		if e.Dialogue {
			target = ModeDialogue
		}
		if target == s.Mode {
			return s, nil
		}
		a, b := s.SpeakerNames()
		s.Script = script.SwitchText(s.Script, e.Dialogue, a, b)
		s.Mode = target
		return s, nil

	case VoiceSelected:
		if _, ok := catalog.Default().ByID(e.VoiceID); !ok {
			return s, nil
		}
		switch e.Slot {
		case SlotA:
			s.VoiceA = e.VoiceID
		case SlotB:
			s.VoiceB = e.VoiceID
		default:
			s.SoloVoice = e.VoiceID
		}
		return s, nil

	case PlayPressed:
		return pressPlay(s)

	case StopPressed:
		if !s.Playing {
			return s, nil
		}
		s.Playing = false
		return s, []Effect{Stop{}}

	case UnlockFailed:
		s.LastError = MsgStudioError
		return s, nil

	case SpeechReady:
		if e.Gen != s.Generation || !s.Generating {
			return s, nil
		}
		s.Generating = false
		s.Playing = true
		s.Used++
		return s, []Effect{RecordGeneration{}, Play{Gen: e.Gen, Buffer: e.Buffer}}

	case SpeechFailed:
		if e.Gen != s.Generation || !s.Generating {
			return s, nil
		}
		s.Generating = false
		s.LastError = MsgStudioError
		return s, nil

	case PlaybackEnded:
		if e.Gen != s.Generation {
			return s, nil
		}
		s.Playing = false
		return s, nil

	case PlaybackFailed:
		if e.Gen != s.Generation {
			return s, nil
		}
		s.Playing = false
		s.LastError = MsgStudioError
		return s, nil

	case RewritePressed:
		if s.Rewriting || s.Exhausted() {
			return s, nil
		}
		s.Rewriting = true
		a, b := s.SpeakerNames()
		return s, []Effect{Rewrite{Text: s.Script, Dialogue: s.Mode == ModeDialogue, SpeakerA: a, SpeakerB: b}}

	case RewriteDone:
		s.Rewriting = false
		s.Script = e.Text
		return s, nil

	case RewriteFailed:
		s.Rewriting = false
		s.LastError = MsgScriptError
		return s, nil

	case ErrorDismissed:
		s.LastError = ""
		return s, nil
	}
	return s, nil
}

// pressPlay кнопка транспорта: стоп, отмена, отказ по квоте или новый запрос.
func pressPlay(s State) (State, []Effect) {
	switch {
	case s.Resolving:
		return s, nil
	case s.Playing:
		s.Playing = false
		return s, []Effect{Stop{}}
	case s.Generating:
		// Отмена: повышаем поколение, поэтому поздний ответ будет отброшен
		s.Generating = false
		prev := s.Generation
		s.Generation++
		return s, []Effect{Cancel{Gen: prev}}
	case s.Exhausted():
		s.LastError = MsgQuotaExhausted(s.Cap)
		return s, nil
	case strings.TrimSpace(s.Script) == "":
		return s, nil
	}

	s.Generating = true
	s.LastError = ""
	s.Generation++
	return s, []Effect{Synthesize{Gen: s.Generation, Script: s.Script, Selection: s.Selection()}}
}
