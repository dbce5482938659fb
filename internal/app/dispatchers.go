package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/botgrid/internal/ctxlog"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/modules/backend"
	"github.com/specialistvlad/botgrid/modules/eino"
	"github.com/specialistvlad/botgrid/modules/elevenlabs"
	"github.com/specialistvlad/botgrid/modules/gemini"
	"github.com/specialistvlad/botgrid/modules/http_client"
	"github.com/specialistvlad/botgrid/modules/print"
	"github.com/specialistvlad/botgrid/modules/socketio"
)

// newDispatchers builds the dispatcher set selected by cfg.Dispatch.
//
// "direct" talks to each service itself where credentials allow and falls
// back to the backend for the rest.
func (a *App) newDispatchers(ctx context.Context, outW io.Writer) (dispatch.Set, error) {
	logger := ctxlog.FromContext(ctx)

	player, err := a.newPlayer()
	if err != nil {
		return dispatch.Set{}, err
	}

	if a.config.Dispatch == DispatchPrint {
		set := print.Set(outW)
		set.Player = player
		return set, nil
	}

	client := http_client.New(a.env.HTTPTimeout)
	a.closers = append(a.closers, func() error {
		http_client.Close(client)
		return nil
	})
	be := backend.New(a.env.BackendURL, client)
	set := dispatch.Set{Mover: be, Synthesizer: be, Generator: be, Player: player}
	if a.config.Dispatch == DispatchBackend {
		logger.Debug("Using backend dispatchers.", "url", a.env.BackendURL)
		return set, nil
	}

	if a.env.RobotURL != "" {
		mover, err := socketio.New(socketio.Config{
			URL:                a.env.RobotURL,
			Event:              a.env.RobotEvent,
			AckEvent:           a.env.RobotAckEvent,
			Timeout:            a.env.HTTPTimeout,
			AutoStop:           a.env.RobotAutoStop,
			InsecureSkipVerify: a.env.RobotInsecure,
		})
		if err != nil {
			return dispatch.Set{}, fmt.Errorf("socket.io mover: %w", err)
		}
		set.Mover = mover
		logger.Debug("Movement goes over socket.io.", "url", a.env.RobotURL)
	}

	if a.env.ElevenLabsAPIKey != "" {
		synth, err := elevenlabs.New(elevenlabs.Config{APIKey: a.env.ElevenLabsAPIKey, Voice: a.env.ElevenLabsVoice}, client)
		if err != nil {
			return dispatch.Set{}, err
		}
		set.Synthesizer = synth
		logger.Debug("Speech goes to ElevenLabs.")
	}

	switch {
	case a.env.GeminiAPIKey != "":
		gen, err := gemini.New(gemini.Config{APIKey: a.env.GeminiAPIKey, Model: a.env.GeminiModel}, client)
		if err != nil {
			return dispatch.Set{}, err
		}
		set.Generator = gen
		logger.Debug("Generation goes to Gemini.", "model", a.env.GeminiModel)
	case a.env.OpenAIAPIKey != "":
		gen, err := eino.NewOpenAI(ctx, eino.Config{
			APIKey:  a.env.OpenAIAPIKey,
			BaseURL: a.env.OpenAIBaseURL,
			Model:   a.env.OpenAIModel,
		})
		if err != nil {
			return dispatch.Set{}, err
		}
		set.Generator = gen
		logger.Debug("Generation goes to an OpenAI-compatible model.", "model", a.env.OpenAIModel)
	}
	return set, nil
}

func (a *App) newPlayer() (dispatch.Player, error) {
	if a.config.AudioDir == "" {
		return print.Discard{}, nil
	}
	sink, err := print.NewFileSink(a.config.AudioDir, "mp3")
	if err != nil {
		return nil, err
	}
	return sink, nil
}
