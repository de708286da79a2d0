package usecase

import (
	"testing"

	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIdosoWithNestedRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")

	idoso := env.createIdoso(t, ctx, resp.Tutor.ID)

	assert.NotEmpty(t, idoso.ID)
	assert.Equal(t, resp.Tutor.ID, idoso.TutorID)
	require.NotNil(t, idoso.PlanoSaude)
	assert.Equal(t, "Unimed", idoso.PlanoSaude.Nome)
	require.Len(t, idoso.Medicacoes, 1)
	assert.Equal(t, idoso.ID, idoso.Medicacoes[0].IdosoID)
	assert.Equal(t, []string{"08:00", "20:00"}, idoso.Medicacoes[0].Horarios)
	require.Len(t, idoso.Exames, 1)
	assert.Equal(t, "2024-05-10", idoso.Exames[0].Data)

	found, err := env.idoso.GetByID(ctx, idoso.ID)
	require.NoError(t, err)
	assert.Equal(t, idoso.Nome, found.Nome)
	assert.Len(t, found.Exames, 1)

	list, err := env.idoso.ListByTutor(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestIdosoBelongsToItsTutor(t *testing.T) {
	env := newTestEnv(t)
	anaCtx, ana := env.signUp(t, "ana@example.com")
	beaCtx, bea := env.signUp(t, "bea@example.com")

	idoso := env.createIdoso(t, anaCtx, ana.Tutor.ID)

	_, err := env.idoso.GetByID(beaCtx, idoso.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.idoso.ListByTutor(beaCtx, ana.Tutor.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.idoso.Create(beaCtx, &dto.CreateIdosoRequest{TutorID: ana.Tutor.ID, Nome: "Intruso"})
	assert.ErrorIs(t, err, ErrForbidden)

	nome := "Outro nome"
	_, err = env.idoso.Update(beaCtx, &dto.UpdateIdosoRequest{ID: idoso.ID, Nome: &nome})
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := env.idoso.ListByTutor(beaCtx, bea.Tutor.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateIdosoMerges(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	idoso := env.createIdoso(t, ctx, resp.Tutor.ID)

	idade := 83
	semPlano := false
	updated, err := env.idoso.Update(ctx, &dto.UpdateIdosoRequest{
		ID:            idoso.ID,
		Idade:         &idade,
		TemPlanoSaude: &semPlano,
	})
	require.NoError(t, err)

	assert.Equal(t, 83, updated.Idade)
	assert.Equal(t, "Dona Maria", updated.Nome)
	assert.Equal(t, 155, updated.Altura)
	assert.Equal(t, resp.Tutor.ID, updated.TutorID)
	assert.False(t, updated.TemPlanoSaude)
	assert.Nil(t, updated.PlanoSaude)
	assert.Len(t, updated.Medicacoes, 1)

	_, err = env.idoso.Update(ctx, &dto.UpdateIdosoRequest{ID: "missing", Idade: &idade})
	assert.ErrorIs(t, err, ErrIdosoNotFound)

	atividade, err := env.tutor.GetActivity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, atividade)
	assert.Equal(t, entity.AuditActionIdosoUpdate, atividade[0].Action)
}

func TestMedicacaoLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	idoso := env.createIdoso(t, ctx, resp.Tutor.ID)

	added, err := env.medicacao.Add(ctx, idoso.ID, &dto.MedicacaoRequest{
		Nome:     "Metformina",
		Dosagem:  "850mg",
		Horarios: []string{"07:30"},
	})
	require.NoError(t, err)
	assert.Equal(t, idoso.ID, added.IdosoID)

	list, err := env.medicacao.List(ctx, idoso.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Losartana", list[0].Nome)
	assert.Equal(t, "Metformina", list[1].Nome)

	dosagem := "500mg"
	updated, err := env.medicacao.Update(ctx, added.ID, &dto.UpdateMedicacaoRequest{Dosagem: &dosagem})
	require.NoError(t, err)
	assert.Equal(t, "500mg", updated.Dosagem)
	assert.Equal(t, "Metformina", updated.Nome)
	assert.Equal(t, []string{"07:30"}, updated.Horarios)

	require.NoError(t, env.medicacao.Delete(ctx, added.ID))
	list, err = env.medicacao.List(ctx, idoso.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, env.medicacao.Delete(ctx, added.ID), ErrMedicacaoNotFound)

	_, err = env.medicacao.Add(ctx, "missing", &dto.MedicacaoRequest{Nome: "X"})
	assert.ErrorIs(t, err, ErrIdosoNotFound)
}

func TestMedicacaoOfAnotherTutor(t *testing.T) {
	env := newTestEnv(t)
	anaCtx, ana := env.signUp(t, "ana@example.com")
	beaCtx, _ := env.signUp(t, "bea@example.com")
	idoso := env.createIdoso(t, anaCtx, ana.Tutor.ID)

	_, err := env.medicacao.List(beaCtx, idoso.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, env.medicacao.Delete(beaCtx, idoso.Medicacoes[0].ID), ErrForbidden)

	list, err := env.medicacao.List(anaCtx, idoso.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestExameLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx, resp := env.signUp(t, "ana@example.com")
	idoso := env.createIdoso(t, ctx, resp.Tutor.ID)

	added, err := env.exame.Add(ctx, idoso.ID, &dto.ExameRequest{Nome: "Glicemia", Data: "2024-06-01"})
	require.NoError(t, err)

	resultado := "normal"
	updated, err := env.exame.Update(ctx, added.ID, &dto.UpdateExameRequest{Resultado: &resultado})
	require.NoError(t, err)
	assert.Equal(t, "normal", updated.Resultado)
	assert.Equal(t, "2024-06-01", updated.Data)

	require.NoError(t, env.exame.Delete(ctx, added.ID))

	list, err := env.exame.List(ctx, idoso.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hemograma", list[0].Nome)

	atividade, err := env.tutor.GetActivity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, atividade)
	assert.Equal(t, entity.AuditActionExameDelete, atividade[0].Action)
}
