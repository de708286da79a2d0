package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
	"tutor-portal/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func (e *testEnv) postEvento(t *testing.T, req dto.CreateEventoRequest) *dto.EventoResponse {
	t.Helper()
	evento, err := e.evento.Create(context.Background(), &req)
	require.NoError(t, err)
	return evento
}

func TestCreateEventoAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	sub := env.hub.Subscribe(resp.Tutor.ID)
	defer env.hub.Unsubscribe(sub)

	before := time.Now().UTC()
	evento := env.postEvento(t, dto.CreateEventoRequest{TutorID: resp.Tutor.ID, IdosoID: "i1", Tipo: "outro"})

	assert.NotEmpty(t, evento.ID)
	assert.Equal(t, "baixa", evento.Severidade)
	assert.Equal(t, entity.DefaultTituloEvento, evento.Titulo)
	assert.Equal(t, "", evento.Descricao)
	assert.False(t, evento.Lido)
	assert.False(t, evento.Datetime.Before(before))
	assert.Nil(t, evento.Dados)

	select {
	case raw := <-sub.Send:
		var msg service.StreamMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, service.StreamEventoCreated, msg.Type)
	default:
		t.Fatal("expected a stream message")
	}

	list, err := env.evento.List(ctx, dto.EventoQuery{})
	require.NoError(t, err)
	require.Len(t, list.Eventos, 1)
	assert.Equal(t, evento.ID, list.Eventos[0].ID)
}

func TestCreateEventoRejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.evento.Create(ctx, &dto.CreateEventoRequest{TutorID: "t1", IdosoID: "i1", Tipo: "desconhecido"})
	assert.ErrorIs(t, err, ErrInvalidTipo)

	_, err = env.evento.Create(ctx, &dto.CreateEventoRequest{TutorID: "t1", IdosoID: "i1", Tipo: "queda", Severidade: "extrema"})
	assert.ErrorIs(t, err, ErrInvalidSeveridade)

	_, err = env.evento.Create(ctx, &dto.CreateEventoRequest{
		TutorID: "t1", IdosoID: "i1", Tipo: "bateria_baixa",
		Dados: entity.EventoDados{Bateria: intPtr(140)},
	})
	assert.ErrorIs(t, err, ErrInvalidDados)
}

func TestCreateEventoKeepsNewestWithinRetention(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < testRetentionLimit+2; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		env.postEvento(t, dto.CreateEventoRequest{
			TutorID:  resp.Tutor.ID,
			IdosoID:  "i1",
			Tipo:     "resposta",
			Titulo:   fmt.Sprintf("evento %d", i),
			Datetime: &at,
		})
	}

	list, err := env.evento.List(ctx, dto.EventoQuery{})
	require.NoError(t, err)
	require.Len(t, list.Eventos, testRetentionLimit)
	assert.Equal(t, "evento 6", list.Eventos[0].Titulo)
	assert.Equal(t, "evento 2", list.Eventos[testRetentionLimit-1].Titulo)
}

func TestCreateEventoBackdatedAtRetentionCapIsKept(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < testRetentionLimit; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		env.postEvento(t, dto.CreateEventoRequest{
			TutorID:  resp.Tutor.ID,
			IdosoID:  "i1",
			Tipo:     "resposta",
			Titulo:   fmt.Sprintf("evento %d", i),
			Datetime: &at,
		})
	}

	atrasado := base.Add(-time.Hour)
	created := env.postEvento(t, dto.CreateEventoRequest{
		TutorID:  resp.Tutor.ID,
		IdosoID:  "i1",
		Tipo:     "queda",
		Titulo:   "enviado com atraso",
		Datetime: &atrasado,
	})

	list, err := env.evento.List(ctx, dto.EventoQuery{})
	require.NoError(t, err)
	require.Len(t, list.Eventos, testRetentionLimit)
	last := list.Eventos[testRetentionLimit-1]
	assert.Equal(t, created.ID, last.ID)
	for _, e := range list.Eventos {
		assert.NotEqual(t, "evento 0", e.Titulo)
	}

	require.NoError(t, env.evento.MarkRead(ctx, &dto.MarkEventoReadRequest{EventoID: created.ID}))
}

func TestListEventosFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	tutorID := resp.Tutor.ID

	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: "i1", Tipo: "queda", Severidade: "critica", Titulo: "Queda na sala"})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: "i1", Tipo: "agua", Titulo: "Bebeu água", Descricao: "Copo cheio"})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: "i1", Tipo: "sintoma", Severidade: "media", Titulo: "Dor de cabeça"})

	list, err := env.evento.List(ctx, dto.EventoQuery{Tipo: "queda"})
	require.NoError(t, err)
	require.Len(t, list.Eventos, 1)
	assert.Equal(t, "Queda na sala", list.Eventos[0].Titulo)
	assert.Equal(t, 3, list.Total)

	list, err = env.evento.List(ctx, dto.EventoQuery{Tipo: entity.FilterAll, Busca: "COPO"})
	require.NoError(t, err)
	require.Len(t, list.Eventos, 1)
	assert.Equal(t, "agua", list.Eventos[0].Tipo)

	list, err = env.evento.List(ctx, dto.EventoQuery{Severidade: "alta"})
	require.NoError(t, err)
	assert.Empty(t, list.Eventos)

	_, err = env.evento.List(ctx, dto.EventoQuery{TutorID: "someone-else"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMarkReadChecksOwnership(t *testing.T) {
	env := newTestEnv(t)
	anaCtx, ana := env.signUp(t, "ana@example.com")
	beaCtx, bea := env.signUp(t, "bea@example.com")

	evento := env.postEvento(t, dto.CreateEventoRequest{TutorID: ana.Tutor.ID, IdosoID: "i1", Tipo: "queda", Severidade: "alta"})

	err := env.evento.MarkRead(beaCtx, &dto.MarkEventoReadRequest{EventoID: evento.ID, TutorID: bea.Tutor.ID})
	assert.ErrorIs(t, err, ErrEventoNotFound)

	err = env.evento.MarkRead(beaCtx, &dto.MarkEventoReadRequest{EventoID: evento.ID, TutorID: ana.Tutor.ID})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, env.evento.MarkRead(anaCtx, &dto.MarkEventoReadRequest{EventoID: evento.ID}))
	require.NoError(t, env.evento.MarkRead(anaCtx, &dto.MarkEventoReadRequest{EventoID: evento.ID, TutorID: ana.Tutor.ID}))

	list, err := env.evento.List(anaCtx, dto.EventoQuery{})
	require.NoError(t, err)
	require.Len(t, list.Eventos, 1)
	assert.True(t, list.Eventos[0].Lido)

	err = env.evento.MarkRead(anaCtx, &dto.MarkEventoReadRequest{EventoID: "missing"})
	assert.ErrorIs(t, err, ErrEventoNotFound)
}

func TestResumoCountsEventos(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	tutorID := resp.Tutor.ID
	old := time.Now().AddDate(0, 0, -3)

	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: "i1", Tipo: "queda", Severidade: "critica"})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: "i1", Tipo: "agua"})
	lido := env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: "i1", Tipo: "resposta", Datetime: &old})
	require.NoError(t, env.evento.MarkRead(ctx, &dto.MarkEventoReadRequest{EventoID: lido.ID}))

	resumo, err := env.evento.GetResumo(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, resumo.Total)
	assert.Equal(t, 2, resumo.Hoje)
	assert.Equal(t, 2, resumo.NaoLidos)
	assert.Equal(t, 1, resumo.Criticos)
	assert.Equal(t, map[string]int{"baixa": 2, "media": 0, "alta": 0, "critica": 1}, resumo.PorSeveridade)
}

func TestSevereEventoPushesToTutorDevice(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")

	env.postEvento(t, dto.CreateEventoRequest{TutorID: resp.Tutor.ID, IdosoID: "i1", Tipo: "queda", Severidade: "critica"})
	assert.Empty(t, env.pusher.messages())

	token := "fcm-token"
	_, err := env.tutor.UpdateProfile(ctx, &dto.UpdateTutorRequest{DeviceToken: &token})
	require.NoError(t, err)

	env.postEvento(t, dto.CreateEventoRequest{TutorID: resp.Tutor.ID, IdosoID: "i1", Tipo: "agua"})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: resp.Tutor.ID, IdosoID: "i1", Tipo: "queda", Severidade: "critica", Titulo: "Queda"})

	sent := env.pusher.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "fcm-token", sent[0].Token)
	assert.True(t, sent[0].Critical)
	assert.Equal(t, "queda", sent[0].Data["tipo"])
}

func TestPainelSummarizesTimeline(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	tutorID := resp.Tutor.ID

	painel, err := env.painel.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, painel.Idoso)
	assert.Equal(t, entity.StatusNormal, painel.StatusGeral)
	assert.Empty(t, painel.EventosRecentes)

	idoso := env.createIdoso(t, ctx, tutorID)
	now := time.Now()
	earlier := now.Add(-time.Minute)

	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: idoso.ID, Tipo: "bateria_baixa", Severidade: "alta",
		Dados: entity.EventoDados{Bateria: intPtr(15)}, Datetime: &earlier})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: idoso.ID, Tipo: "resposta",
		Dados: entity.EventoDados{Resposta: "Estou bem", Bateria: intPtr(14)}, Datetime: &now})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: idoso.ID, Tipo: "agua",
		Dados: entity.EventoDados{ConsumoAgua: intPtr(250)}, Datetime: &earlier})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: idoso.ID, Tipo: "agua",
		Dados: entity.EventoDados{ConsumoAgua: intPtr(300)}, Datetime: &earlier})
	env.postEvento(t, dto.CreateEventoRequest{TutorID: tutorID, IdosoID: idoso.ID, Tipo: "localizacao",
		Dados: entity.EventoDados{Localizacao: &entity.Localizacao{
			Latitude:  decimal.RequireFromString("-8.0476"),
			Longitude: decimal.RequireFromString("-34.8770"),
		}}, Datetime: &earlier})

	painel, err = env.painel.Get(ctx)
	require.NoError(t, err)

	require.NotNil(t, painel.Idoso)
	assert.Equal(t, idoso.ID, painel.Idoso.ID)
	require.NotNil(t, painel.UltimaResposta)
	assert.Equal(t, "Estou bem", painel.UltimaResposta.Resposta)
	require.NotNil(t, painel.Bateria)
	assert.Equal(t, 14, painel.Bateria.Nivel)
	require.NotNil(t, painel.Localizacao)
	assert.Equal(t, "-8.0476", painel.Localizacao.Latitude.String())
	assert.Equal(t, 550, painel.ConsumoAguaHoje)
	assert.Len(t, painel.MedicacoesHoje, 1)
	assert.Len(t, painel.EventosRecentes, testRetentionLimit)
	assert.Equal(t, testRetentionLimit, painel.NaoLidos)
	assert.Equal(t, entity.StatusAtencao, painel.StatusGeral)
}

func TestEmergenciaListsServicesAndContacts(t *testing.T) {
	env := newTestEnv(t)
	ctx, _ := env.signUp(t, "ana@example.com")

	emergencia, err := env.emergencia.Get(ctx)
	require.NoError(t, err)

	require.Len(t, emergencia.Servicos, 3)
	assert.Equal(t, "SAMU", emergencia.Servicos[1].Nome)
	assert.Equal(t, "tel:192", emergencia.Servicos[1].URI)
	require.Len(t, emergencia.Contatos, 1)
	assert.Equal(t, "tel:81999990000", emergencia.Contatos[0].URI)
}

func TestEmergenciaCallRecordsReadAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")

	chamada, err := env.emergencia.Call(ctx, &dto.ChamadaEmergenciaRequest{Numero: "192", Servico: "SAMU"})
	require.NoError(t, err)
	assert.Equal(t, "tel:192", chamada.URI)
	assert.Nil(t, chamada.Evento)

	idoso := env.createIdoso(t, ctx, resp.Tutor.ID)
	chamada, err = env.emergencia.Call(ctx, &dto.ChamadaEmergenciaRequest{Numero: "+55 81 99999-0000"})
	require.NoError(t, err)
	assert.Equal(t, "tel:+5581999990000", chamada.URI)
	require.NotNil(t, chamada.Evento)
	assert.Equal(t, "alerta", chamada.Evento.Tipo)
	assert.Equal(t, "critica", chamada.Evento.Severidade)
	assert.Equal(t, TituloChamadaEmergencia, chamada.Evento.Titulo)
	assert.Equal(t, idoso.ID, chamada.Evento.IdosoID)
	assert.True(t, chamada.Evento.Lido)

	painel, err := env.painel.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusNormal, painel.StatusGeral)
	assert.Equal(t, 1, painel.Criticos)

	atividade, err := env.tutor.GetActivity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, atividade)
	assert.Equal(t, entity.AuditActionEmergenciaCall, atividade[0].Action)
}
