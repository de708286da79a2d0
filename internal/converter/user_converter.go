package converter

import (
	"tutor-portal/internal/delivery/dto"
	"tutor-portal/internal/domain/entity"
)

func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// TutorToResponse converts a Tutor entity to TutorResponse DTO
func TutorToResponse(tutor *entity.Tutor) *dto.TutorResponse {
	if tutor == nil {
		return nil
	}

	contatos := make([]dto.ContatoEmergenciaDTO, len(tutor.ContatosEmergencia))
	for i, c := range tutor.ContatosEmergencia {
		contatos[i] = dto.ContatoEmergenciaDTO{ID: c.ID, Nome: c.Nome, Telefone: c.Telefone}
	}

	return &dto.TutorResponse{
		ID:                 tutor.ID,
		UserID:             tutor.UserID,
		Email:              tutor.Email,
		Nome:               tutor.Nome,
		Documento:          tutor.Documento,
		Idade:              tutor.Idade,
		Endereco:           EnderecoToDTO(tutor.Endereco),
		ContatosEmergencia: contatos,
		Foto:               tutor.Foto,
		PushAtivo:          tutor.DeviceToken != "",
		CreatedAt:          tutor.CreatedAt,
		UpdatedAt:          tutor.UpdatedAt,
	}
}

func EnderecoToDTO(e entity.Endereco) dto.EnderecoDTO {
	return dto.EnderecoDTO{
		Rua:    e.Rua,
		Numero: e.Numero,
		Bairro: e.Bairro,
		Cidade: e.Cidade,
		Estado: e.Estado,
		CEP:    e.CEP,
	}
}

func EnderecoFromDTO(d dto.EnderecoDTO) entity.Endereco {
	return entity.Endereco{
		Rua:    d.Rua,
		Numero: d.Numero,
		Bairro: d.Bairro,
		Cidade: d.Cidade,
		Estado: d.Estado,
		CEP:    d.CEP,
	}
}
