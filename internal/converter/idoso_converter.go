package converter

import (
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
)

// IdosoToResponse converts an Idoso entity, with its medications and exams, to IdosoResponse DTO
func IdosoToResponse(idoso *entity.Idoso) *dto.IdosoResponse {
	if idoso == nil {
		return nil
	}

	response := &dto.IdosoResponse{
		ID:            idoso.ID,
		TutorID:       idoso.TutorID,
		Nome:          idoso.Nome,
		Idade:         idoso.Idade,
		Altura:        idoso.Altura,
		Doencas:       append([]string{}, idoso.Doencas...),
		CondicaoAtual: idoso.CondicaoAtual,
		TemPlanoSaude: idoso.TemPlanoSaude,
		NumeroSUS:     idoso.NumeroSUS,
		Foto:          idoso.Foto,
		Medicacoes:    MedicacoesToResponses(idoso.Medicacoes),
		Exames:        ExamesToResponses(idoso.Exames),
		CreatedAt:     idoso.CreatedAt,
		UpdatedAt:     idoso.UpdatedAt,
	}

	if plano := idoso.PlanoSaude(); plano != nil {
		response.PlanoSaude = &dto.PlanoSaudeDTO{Nome: plano.Nome, NumeroCarteira: plano.NumeroCarteira}
	}

	return response
}

func IdososToResponses(idosos []entity.Idoso) []dto.IdosoResponse {
	responses := make([]dto.IdosoResponse, len(idosos))
	for i := range idosos {
		responses[i] = *IdosoToResponse(&idosos[i])
	}
	return responses
}

func MedicacaoToResponse(m *entity.Medicacao) *dto.MedicacaoResponse {
	if m == nil {
		return nil
	}
	return &dto.MedicacaoResponse{
		ID:          m.ID,
		IdosoID:     m.IdosoID,
		Nome:        m.Nome,
		Dosagem:     m.Dosagem,
		Frequencia:  m.Frequencia,
		Horarios:    append([]string{}, m.Horarios...),
		Observacoes: m.Observacoes,
	}
}

func MedicacoesToResponses(medicacoes []entity.Medicacao) []dto.MedicacaoResponse {
	responses := make([]dto.MedicacaoResponse, len(medicacoes))
	for i := range medicacoes {
		responses[i] = *MedicacaoToResponse(&medicacoes[i])
	}
	return responses
}

func MedicacaoFromRequest(req dto.MedicacaoRequest) entity.Medicacao {
	return entity.Medicacao{
		Nome:        req.Nome,
		Dosagem:     req.Dosagem,
		Frequencia:  req.Frequencia,
		Horarios:    entity.StringList(append([]string{}, req.Horarios...)),
		Observacoes: req.Observacoes,
	}
}

func ExameToResponse(e *entity.Exame) *dto.ExameResponse {
	if e == nil {
		return nil
	}
	return &dto.ExameResponse{
		ID:          e.ID,
		IdosoID:     e.IdosoID,
		Nome:        e.Nome,
		Data:        e.Data,
		Resultado:   e.Resultado,
		Observacoes: e.Observacoes,
		Arquivo:     e.Arquivo,
	}
}

func ExamesToResponses(exames []entity.Exame) []dto.ExameResponse {
	responses := make([]dto.ExameResponse, len(exames))
	for i := range exames {
		responses[i] = *ExameToResponse(&exames[i])
	}
	return responses
}

func ExameFromRequest(req dto.ExameRequest) entity.Exame {
	return entity.Exame{
		Nome:        req.Nome,
		Data:        req.Data,
		Resultado:   req.Resultado,
		Observacoes: req.Observacoes,
		Arquivo:     req.Arquivo,
	}
}
