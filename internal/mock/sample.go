package mock

import "github.com/studiowebux/proyectos/internal/types"

// SampleRecords returns a small register covering every status and date format
func SampleRecords() []types.Record {
	return []types.Record{
		{
			Title: "Sistema de riego automatizado", Program: "Ingeniería Agrícola",
			Student1: "Ana Gómez", Advisor: "Dr. Pérez", Evaluator1: "Mg. Torres",
			Proposal: "Aprobado", PreProject: "Aprobado", FinalWork: "En revisión",
			DefenseDate: "15 de marzo de 2024", Time: "10:00", CallCycle: "2024-1",
			Kind: "Monografía", Year: "2024", OriginSheet: "2024",
		},
		{
			Title: "Análisis de suelos en zonas de ladera", Program: "Agronomía",
			Student1: "Luis Rojas", Student2: "Marta Silva", Advisor: "Dra. Díaz",
			Proposal: "Aprobado", PreProject: "En revisión",
			DefenseDate: "20/4/2024", CallCycle: "2024-1", Kind: "Artículo", Year: "2024", OriginSheet: "2024",
		},
		{
			Title: "Modelo predictivo de cosechas", Program: "Ingeniería de Sistemas",
			Student1: "Carlos Ruiz", Advisor: "Dr. Pérez",
			Proposal: "No aprobado", Kind: "Artículo", Year: "2023", OriginSheet: "2023",
		},
		{
			Title: "Compostaje urbano comunitario", Program: "Agronomía",
			Student1: "Sofía Vargas", Advisor: "Mg. Torres",
			Proposal: "Aprobado", PreProject: "Aprobado", FinalWork: "Aprobado",
			DefenseDate: "2023-11-02", Time: "14:30", CallCycle: "2023-2",
			Kind: "Monografía", Year: "2023", OriginSheet: "2023",
		},
		{
			Title: "Trazabilidad de café de origen", Program: "Ingeniería Agroindustrial",
			Student1: "Jorge Medina",
			Proposal: "En revisión", Year: "2024", OriginSheet: "2024",
		},
	}
}
