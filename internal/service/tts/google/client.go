package google

import (
	"AdStudio/internal/service/tts"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

type synthesizeFunc func(ctx context.Context, req *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error)

// Client реализует синтез через Google Cloud Text-to-Speech голосами Chirp 3 HD,
// у которых те же имена, что и у голосов Gemini. Только соло: стиль не поддерживается,
// озвучивается сам текст.
type Client struct {
	language   string
	family     string
	sampleRate int
	logger     *zap.SugaredLogger
	call       synthesizeFunc
}

func New(language, family string, sampleRate int, logger *zap.SugaredLogger) *Client {
	c := &Client{language: language, family: family, sampleRate: sampleRate, logger: logger}
	c.call = c.synthesizeSDK
	return c
}

// VoiceName полное имя голоса Cloud TTS, напр. fr-FR-Chirp3-HD-Orus.
func (c *Client) VoiceName(voiceID string) string {
	return fmt.Sprintf("%s-%s-%s", c.language, c.family, voiceID)
}

// Synthesize возвращает base64 PCM s16le, как и Gemini: WAV-заголовок LINEAR16 снимается.
func (c *Client) Synthesize(ctx context.Context, req tts.Request) (string, error) {
	if req.Dialogue() {
		return "", tts.ErrDialogueUnsupported
	}
	if len(req.Speakers) == 0 {
		return "", fmt.Errorf("google tts: no voice selected")
	}
	text := req.Text
	if strings.TrimSpace(text) == "" {
		text = req.Prompt
	}
	if strings.TrimSpace(text) == "" {
		return "", tts.ErrEmptyText
	}

	r := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: c.language,
			Name:         c.VoiceName(req.Speakers[0].VoiceID),
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding:   ttspb.AudioEncoding_LINEAR16,
			SampleRateHertz: int32(c.sampleRate),
		},
	}

	started := time.Now()
	resp, err := c.call(ctx, r)
	if err != nil {
		return "", fmt.Errorf("google tts: %w", err)
	}
	if c.logger != nil {
		c.logger.Infow("Google TTS synthesize completed", "voice", r.Voice.Name, "took", time.Since(started).String())
	}

	pcm := stripWAVHeader(resp.GetAudioContent())
	if len(pcm) == 0 {
		return "", tts.ErrEmptyResponse
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}

func (c *Client) synthesizeSDK(ctx context.Context, req *ttspb.SynthesizeSpeechRequest) (*ttspb.SynthesizeSpeechResponse, error) {
	// Создаём клиента SDK
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer ttsClient.Close()
	return ttsClient.SynthesizeSpeech(ctx, req)
}

// stripWAVHeader возвращает содержимое чанка data. Если это не RIFF/WAVE, данные как есть.
func stripWAVHeader(b []byte) []byte {
	if len(b) < 12 || !bytes.Equal(b[0:4], []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return b
	}
	pos := 12
	for pos+8 <= len(b) {
		id := b[pos : pos+4]
		size := int(binary.LittleEndian.Uint32(b[pos+4 : pos+8]))
		pos += 8
		if bytes.Equal(id, []byte("data")) {
			end := pos + size
			if end > len(b) || size == 0 {
				end = len(b)
			}
			return b[pos:end]
		}
		pos += size + size%2
	}
	return nil
}
