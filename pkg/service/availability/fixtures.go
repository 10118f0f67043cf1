package availability

import (
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/model"
	"github.com/cenate-lab/citabot/pkg/domain/types"
)

// DemoSlots returns a small schedule starting the day after base, used
// by the interactive REPL and development setups.
func DemoSlots(base time.Time) []model.AvailabilitySlot {
	day := func(offset int) string {
		return base.AddDate(0, 0, offset).Format("2006-01-02")
	}

	return []model.AvailabilitySlot{
		{
			AvailabilityID: 1001,
			Specialty:      "CARDIOLOGIA",
			ProviderID:     501,
			ProviderName:   "Dra. Rosa Quispe",
			FacilityName:   "CAP III El Agustino",
			FacilityCode:   "CAP3-EA",
			Date:           day(1),
			StartTime:      "09:00",
			EndTime:        "09:20",
			Channel:        types.ChannelRemoteVisit,
		},
		{
			AvailabilityID: 1002,
			Specialty:      "CARDIOLOGIA",
			ProviderID:     501,
			ProviderName:   "Dra. Rosa Quispe",
			FacilityName:   "CAP III El Agustino",
			FacilityCode:   "CAP3-EA",
			Date:           day(1),
			StartTime:      "09:20",
			EndTime:        "09:40",
			Channel:        types.ChannelRemoteVisit,
		},
		{
			AvailabilityID: 1003,
			Specialty:      "CARDIOLOGIA",
			ProviderID:     502,
			ProviderName:   "Dr. Luis Mendoza",
			FacilityName:   "Hospital III Chimbote",
			FacilityCode:   "H3-CHI",
			Date:           day(3),
			StartTime:      "11:00",
			EndTime:        "11:20",
			Channel:        types.ChannelInPerson,
		},
		{
			AvailabilityID: 2001,
			Specialty:      "DERMATOLOGIA",
			ProviderID:     510,
			ProviderName:   "Dra. Carla Paredes",
			FacilityName:   "CAP II Villa María",
			FacilityCode:   "CAP2-VM",
			Date:           day(2),
			StartTime:      "15:00",
			EndTime:        "15:15",
			Channel:        types.ChannelRemoteImaging,
		},
		{
			AvailabilityID: 3001,
			Specialty:      "MEDICINA INTERNA",
			ProviderID:     520,
			ProviderName:   "Dr. Jorge Salas",
			FacilityName:   "Policlínico Pablo Bermúdez",
			FacilityCode:   "PPB",
			Date:           day(5),
			StartTime:      "08:30",
			EndTime:        "08:50",
			Channel:        types.ChannelRemoteVisit,
		},
	}
}
