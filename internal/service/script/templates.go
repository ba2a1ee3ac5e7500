package script

import "fmt"

// DynamicRadioPersona режиссёрская инструкция, которая предваряет каждый запрос синтеза.
const DynamicRadioPersona = `# AUDIO PROFILE: Dynamic Radio Ad Voice
## "Commercial Urgency"

## THE SCENE: The Radio Studio
We are in a professional, isolated, modern recording studio. The red "ON AIR" tally light is blazing. The voice actor is standing up, energetic, physically engaged in their reading. They are speaking directly to the listener to convince them instantly. The atmosphere is electric, urgent, and positive.

### DIRECTOR'S NOTES
* **Tone (The Smile):** "The Vocal Smile". You must *hear* the grin in the audio. The tone is bright, sunny, and explicitly inviting.
* **Dynamics (The Impact):** High projection without shouting. Punchy consonants and infectious energy.
* **Pace (The Rhythm):** "Engaging and Steady". A professional, energetic pace (approx. 145-155 words/minute). Ensure every word is perfectly articulated and clear. Do NOT rush; maintain the energy through punchy delivery rather than pure speed.
* **BREATHING (CRITICAL):** "No dead air". No audible breathing. The flow must be tight and continuous, with absolutely no unnecessary pauses between sentences.

### SAMPLE CONTEXT
This is the industry standard for "Top of the Hour" radio spots or event promos requiring immediate charisma and 110% energy.`

// SoloTemplate стартовый текст редактора в режиме соло.
const SoloTemplate = "C'est le moment ! Ne ratez pas l'offre incroyable d'AdEasy.io ! Une puissance de voix off instantanée, une clarté absolue, et une énergie qui va booster vos projets comme jamais ! Rendez-vous sur AdEasy.io dès maintenant !"

// Имена по умолчанию, если голос не найден в каталоге.
const (
	DefaultSpeakerA = "Pierre"
	DefaultSpeakerB = "Sophie"
)

// DialogueTemplate стартовый сценарий для двух голосов.
func DialogueTemplate(a, b string) string {
	return fmt.Sprintf(`%[1]s: [enthusiastic] Dis donc %[2]s, tu as entendu parler d'AdEasy.io ?
%[2]s: [curious] Non, c'est quoi ?
%[1]s: [laughing] Des voix off de studio en quelques secondes, sans réserver de cabine !
%[2]s: [enthusiastic] Génial ! Je file sur AdEasy.io tout de suite !`, a, b)
}

func soloPrompt(text string) string {
	return fmt.Sprintf(`TU ES UN RÉDACTEUR PUBLICITAIRE GÉNIAL ET DISRUPTIF UTILISANT UN FRANÇAIS (FRANCE) MODERNE ET NATUREL.
TA MISSION : Transformer ce texte ennuyeux en un spot radio SOLO mémorable.

CONSIGNES CRÉATIVES :
- Sois audacieux, drôle, ou extrêmement inspirant.
- Utilise un ton de voix "français" authentique.
- Écris les sites web normalement (ex: adeasy.io).

Texte source: "%s"
Renvoie UNIQUEMENT le nouveau texte du spot.`, text)
}

func dialoguePrompt(text, a, b string) string {
	return fmt.Sprintf(`TU ES UN SCÉNARISTE DE FICTION RADIO SPÉCIALISÉ DANS LE DIALOGUE FRANÇAIS (FRANCE).
TA MISSION : Créer un dialogue ultra-réaliste entre %[2]s et %[3]s.

CONSIGNES :
- Balises vocalises en anglais : [laughing], [sighing], [hesitating], [whispering], [enthusiastic], [breathing], [thinking], [chuckling].
- Pas d'effets sonores.
- Utilise EXCLUSIVEMENT les noms "%[2]s" et "%[3]s".

FORMAT STRICT :
%[2]s: [Expression] Texte
%[3]s: [Expression] Réaction

Texte source: "%[1]s"
Renvoie UNIQUEMENT le dialogue scénarisé.`, text, a, b)
}
