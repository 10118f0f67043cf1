package functions

import (
	"context"
	"encoding/json"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Callable function names advertised to the model
const (
	FuncSearchAvailability = "searchAvailability"
	FuncConfirmAppointment = "confirmAppointment"
)

// RegisterDefaults wires the appointment functions against the given
// scheduling service.
func RegisterDefaults(registry interfaces.FunctionRegistry, svc interfaces.AvailabilityService) error {
	if err := registry.Register(SearchAvailabilityDefinition(), searchAvailabilityExecutor(svc)); err != nil {
		return err
	}
	if err := registry.Register(ConfirmAppointmentDefinition(), confirmAppointmentExecutor(svc)); err != nil {
		return err
	}
	return nil
}

// SearchAvailabilityDefinition describes the slot search function.
func SearchAvailabilityDefinition() model.FunctionDefinition {
	return model.FunctionDefinition{
		Name:        FuncSearchAvailability,
		Description: "Busca cupos de cita disponibles por especialidad y rango de fechas",
		Parameters: map[string]*model.FunctionParameter{
			"specialty": {
				Type:        model.ParamTypeString,
				Description: "Especialidad médica solicitada, por ejemplo CARDIOLOGIA",
				Required:    true,
			},
			"facilityCode": {
				Type:        model.ParamTypeString,
				Description: "Código del establecimiento de salud, opcional",
			},
			"dateFrom": {
				Type:        model.ParamTypeString,
				Description: "Inicio del rango de búsqueda, formato YYYY-MM-DD",
				Required:    true,
			},
			"dateTo": {
				Type:        model.ParamTypeString,
				Description: "Fin del rango de búsqueda, formato YYYY-MM-DD",
				Required:    true,
			},
		},
	}
}

// ConfirmAppointmentDefinition describes the booking function.
func ConfirmAppointmentDefinition() model.FunctionDefinition {
	return model.FunctionDefinition{
		Name:        FuncConfirmAppointment,
		Description: "Reserva el cupo de cita elegido para el paciente",
		Parameters: map[string]*model.FunctionParameter{
			"availabilityId": {
				Type:        model.ParamTypeInteger,
				Description: "Identificador del cupo devuelto por searchAvailability",
				Required:    true,
			},
			"subjectId": {
				Type:        model.ParamTypeString,
				Description: "Documento de identidad del paciente",
				Required:    true,
			},
		},
	}
}

// searchResult is the JSON payload fed back to the model after a slot
// search.
type searchResult struct {
	Slots []model.AvailabilitySlot `json:"slots"`
	Count int                      `json:"count"`
}

func searchAvailabilityExecutor(svc interfaces.AvailabilityService) interfaces.FunctionExecutor {
	return func(ctx context.Context, args map[string]any) (string, error) {
		specialty, err := stringArg(args, "specialty", true)
		if err != nil {
			return "", err
		}
		facilityCode, err := stringArg(args, "facilityCode", false)
		if err != nil {
			return "", err
		}
		dateFrom, err := stringArg(args, "dateFrom", true)
		if err != nil {
			return "", err
		}
		dateTo, err := stringArg(args, "dateTo", true)
		if err != nil {
			return "", err
		}

		slots, err := svc.SearchAvailability(ctx, interfaces.AvailabilityQuery{
			Specialty:    specialty,
			FacilityCode: facilityCode,
			DateFrom:     dateFrom,
			DateTo:       dateTo,
		})
		if err != nil {
			return "", goerr.Wrap(err, "availability search failed",
				goerr.V("specialty", specialty),
			)
		}

		data, err := json.Marshal(searchResult{Slots: slots, Count: len(slots)})
		if err != nil {
			return "", goerr.Wrap(err, "failed to marshal search result")
		}
		return string(data), nil
	}
}

func confirmAppointmentExecutor(svc interfaces.AvailabilityService) interfaces.FunctionExecutor {
	return func(ctx context.Context, args map[string]any) (string, error) {
		availabilityID, err := int64Arg(args, "availabilityId")
		if err != nil {
			return "", err
		}
		subjectID, err := stringArg(args, "subjectId", true)
		if err != nil {
			return "", err
		}

		confirmation, err := svc.ConfirmAppointment(ctx, types.AvailabilityID(availabilityID), subjectID)
		if err != nil {
			return "", goerr.Wrap(err, "appointment confirmation failed",
				goerr.V("availabilityID", availabilityID),
			)
		}

		data, err := json.Marshal(confirmation)
		if err != nil {
			return "", goerr.Wrap(err, "failed to marshal confirmation")
		}
		return string(data), nil
	}
}

func stringArg(args map[string]any, key string, required bool) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return "", goerr.New("missing required argument", goerr.V("key", key))
		}
		return "", nil
	}

	value, ok := raw.(string)
	if !ok {
		return "", goerr.New("argument is not a string",
			goerr.V("key", key),
			goerr.V("value", raw),
		)
	}
	if required && value == "" {
		return "", goerr.New("required argument is empty", goerr.V("key", key))
	}
	return value, nil
}

// int64Arg accepts the numeric encodings JSON decoders produce for
// integer arguments.
func int64Arg(args map[string]any, key string) (int64, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return 0, goerr.New("missing required argument", goerr.V("key", key))
	}

	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, goerr.Wrap(err, "argument is not an integer", goerr.V("key", key))
		}
		return n, nil
	default:
		return 0, goerr.New("argument is not an integer",
			goerr.V("key", key),
			goerr.V("value", raw),
		)
	}
}
