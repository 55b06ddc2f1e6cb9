package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"voicebook/config"
	"voicebook/utils"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	maxAudioBytes    = 5 * 1024 * 1024
	allowedExtension = ".wav"
)

// STTHandler is the server-side transcription fallback for browsers
// without usable speech recognition. The client records mono PCM WAV; the
// resulting text feeds the same utterance endpoint as browser recognition.
type STTHandler struct {
	Logger *zap.Logger
}

func NewSTTHandler(logger *zap.Logger) *STTHandler {
	return &STTHandler{Logger: logger}
}

func (h *STTHandler) Transcribe(c *gin.Context) {
	language := c.DefaultPostForm("language", config.AppConfig.SpeechLocale)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != allowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type",
			fmt.Sprintf("expected %s, got %s", allowedExtension, ext))
		return
	}

	// Read one byte past the cap so oversized uploads are rejected rather
	// than silently clipped mid-recording.
	audioData, err := io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio", err.Error())
		return
	}
	if len(audioData) > maxAudioBytes {
		utils.JSONError(c, http.StatusBadRequest, "audio file too large",
			fmt.Sprintf("limit is %d bytes", maxAudioBytes))
		return
	}

	sampleRate, channels, err := sniffWave(audioData)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid WAV file", err.Error())
		return
	}

	ctx := c.Request.Context()
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(config.AppConfig.GoogleServiceAccountFile))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to initialize speech client", err.Error())
		return
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   int32(sampleRate),
			LanguageCode:      language,
			AudioChannelCount: int32(channels),
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		h.Logger.Warn("speech recognition failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "speech recognition failed", err.Error())
		return
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}
	c.JSON(http.StatusOK, gin.H{"transcription": strings.TrimSpace(transcript.String())})
}

// sniffWave validates the RIFF/WAVE magic and pulls the channel count and
// sample rate from the fmt chunk at its canonical offset.
func sniffWave(data []byte) (sampleRate, channels int, err error) {
	if len(data) < 44 {
		return 0, 0, errors.New("file too short for a WAV header")
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return 0, 0, errors.New("missing RIFF/WAVE magic")
	}
	channels = int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate = int(binary.LittleEndian.Uint32(data[24:28]))
	if channels < 1 || channels > 2 || sampleRate < 8000 || sampleRate > 48000 {
		return 0, 0, fmt.Errorf("unsupported format: %d channels at %d Hz", channels, sampleRate)
	}
	return sampleRate, channels, nil
}
