// Catalogus - AI Software Catalog and Learning Hub
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/catalogus

package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/catalogus/internal/logging"
	"github.com/tomtom215/catalogus/internal/models"
)

// SeedSoftware is the initial software catalog.
func SeedSoftware() []models.SoftwareEntry {
	return []models.SoftwareEntry{
		{
			ID:          "1",
			Name:        "ChatGPT",
			Objective:   "Asistente conversacional de IA generativa",
			AccessLink:  "https://chat.openai.com",
			License:     "Propietaria",
			ReleaseYear: 2022,
			Author:      "OpenAI",
			Rating:      4.5,
			RatingCount: 120,
			Category:    "NLP",
			Description: "Modelo de lenguaje para conversación y generación de texto",
		},
		{
			ID:          "2",
			Name:        "TensorFlow",
			Objective:   "Plataforma de aprendizaje automático",
			AccessLink:  "https://tensorflow.org",
			License:     "Apache 2.0",
			ReleaseYear: 2015,
			Author:      "Google",
			Rating:      4.3,
			RatingCount: 85,
			Category:    "ML Framework",
			Description: "Framework para desarrollo de modelos de machine learning",
		},
		{
			ID:          "3",
			Name:        "Stable Diffusion",
			Objective:   "Generación de imágenes por IA",
			AccessLink:  "https://stability.ai",
			License:     "Creative ML OpenRAIL-M",
			ReleaseYear: 2022,
			Author:      "Stability AI",
			Rating:      4.2,
			RatingCount: 95,
			Category:    "Image Generation",
			Description: "Modelo de difusión para generar imágenes a partir de texto",
		},
	}
}

// SeedClassifications is the initial AI technique taxonomy.
func SeedClassifications() []models.Classification {
	return []models.Classification{
		{
			ID:            "1",
			Name:          "Sistemas Expertos",
			Description:   "Sistemas que emulan la capacidad de toma de decisiones de un experto humano",
			Examples:      []string{"MYCIN", "DENDRAL", "CLIPS"},
			ImageURL:      "https://via.placeholder.com/300x200?text=Sistemas+Expertos",
			InterestLinks: []string{"https://en.wikipedia.org/wiki/Expert_system"},
			Rating:        4.0,
			RatingCount:   45,
		},
		{
			ID:            "2",
			Name:          "Redes Neuronales",
			Description:   "Modelos computacionales inspirados en el funcionamiento del cerebro humano",
			Examples:      []string{"Perceptrón", "CNN", "RNN", "Transformer"},
			ImageURL:      "https://via.placeholder.com/300x200?text=Redes+Neuronales",
			InterestLinks: []string{"https://en.wikipedia.org/wiki/Artificial_neural_network"},
			Rating:        4.7,
			RatingCount:   78,
		},
		{
			ID:            "3",
			Name:          "Algoritmos Genéticos",
			Description:   "Técnicas de optimización basadas en la evolución natural",
			Examples:      []string{"GA simple", "NSGA-II", "Evolución diferencial"},
			ImageURL:      "https://via.placeholder.com/300x200?text=Algoritmos+Geneticos",
			InterestLinks: []string{"https://en.wikipedia.org/wiki/Genetic_algorithm"},
			Rating:        3.8,
			RatingCount:   32,
		},
	}
}

// SeedForumPosts is the initial forum content.
func SeedForumPosts() []models.ForumPost {
	return []models.ForumPost{
		{
			ID:      "1",
			Title:   "¿Cuál es el futuro de la IA generativa?",
			Content: "Me gustaría conocer sus opiniones sobre hacia dónde se dirige la IA generativa...",
			Author:  "Usuario1",
			Date:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Replies: []models.ForumReply{
				{
					ID:      "1",
					Content: "Creo que veremos grandes avances en multimodalidad...",
					Author:  "Usuario2",
					Date:    time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			ID:      "2",
			Title:   "Comparación entre TensorFlow y PyTorch",
			Content: "¿Qué framework recomiendan para empezar en ML?",
			Author:  "Estudiante",
			Date:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Replies: []models.ForumReply{},
		},
	}
}

// SeedClassTopics is the initial set of educational topics.
func SeedClassTopics() []models.ClassTopic {
	return []models.ClassTopic{
		{
			ID:          "1",
			Title:       "Introducción a la Inteligencia Artificial",
			Image:       "https://via.placeholder.com/400x200?text=Introducción+IA",
			Description: "Conceptos básicos y fundamentos de la inteligencia artificial moderna.",
			Content: "La Inteligencia Artificial (IA) es una rama de la informática que se enfoca en crear sistemas capaces de realizar tareas que típicamente requieren inteligencia humana.\n\n" +
				"Historia de la IA:\n- 1950: Alan Turing propone el Test de Turing\n- 1956: Conferencia de Dartmouth - Nacimiento oficial de la IA\n- 1980s: Sistemas expertos\n- 1990s: Machine Learning\n- 2010s: Deep Learning\n- 2020s: IA Generativa\n\n" +
				"Tipos de IA:\n1. IA Débil (Narrow AI): Especializada en tareas específicas\n2. IA General (AGI): Capacidad de razonamiento general\n3. Superinteligencia: Supera la inteligencia humana en todos los aspectos",
			Rating:      4.5,
			RatingCount: 12,
			CreatedDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "2",
			Title:       "Machine Learning: Algoritmos Supervisados",
			Image:       "https://via.placeholder.com/400x200?text=Machine+Learning",
			Description: "Exploración detallada de los algoritmos de aprendizaje supervisado más importantes.",
			Content: "El Machine Learning supervisado utiliza datos etiquetados para entrenar modelos que pueden hacer predicciones sobre nuevos datos.\n\nAlgoritmos principales:\n\n" +
				"1. Regresión Linear\n- Predice valores continuos\n- Encuentra la mejor línea que se ajusta a los datos\n- Ejemplo: Predecir precios de casas\n\n" +
				"2. Árboles de Decisión\n- Estructura jerárquica de decisiones\n- Fácil interpretación\n- Puede manejar datos categóricos y numéricos\n\n" +
				"3. Random Forest\n- Combina múltiples árboles de decisión\n- Reduce overfitting\n- Mayor precisión que árboles individuales\n\n" +
				"4. Support Vector Machines (SVM)\n- Encuentra el hiperplano óptimo para separar clases\n- Efectivo en espacios de alta dimensión\n- Utiliza el \"kernel trick\" para datos no lineales",
			Rating:      4.3,
			RatingCount: 8,
			CreatedDate: time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "3",
			Title:       "Redes Neuronales y Deep Learning",
			Image:       "https://via.placeholder.com/400x200?text=Deep+Learning",
			Description: "Fundamentos de las redes neuronales artificiales y el aprendizaje profundo.",
			Content: "Las redes neuronales son modelos computacionales inspirados en el cerebro humano.\n\nComponentes básicos:\n\n" +
				"1. Neurona Artificial\n- Recibe inputs ponderados\n- Aplica función de activación\n- Produce output\n\n" +
				"2. Capas\n- Input Layer: Recibe datos\n- Hidden Layers: Procesan información\n- Output Layer: Produce resultado final\n\n" +
				"3. Funciones de Activación\n- ReLU: max(0, x)\n- Sigmoid: 1/(1+e^-x)\n- Tanh: (e^x - e^-x)/(e^x + e^-x)\n\n" +
				"Tipos de Redes:\n- Feedforward: Información fluye en una dirección\n- Recurrentes (RNN): Tienen memoria, procesan secuencias\n- Convolucionales (CNN): Especializadas en imágenes\n- Transformers: Utilizan mecanismo de atención",
			Rating:      4.7,
			RatingCount: 15,
			CreatedDate: time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC),
		},
	}
}

// Seed populates an empty store with the initial catalog. Collections that
// already contain documents are left untouched, so restarting against a
// durable store never duplicates data.
func Seed(ctx context.Context, store Store) error {
	log := logging.WithComponent("docstore")

	seeded := 0
	seedCollection := func(kind models.Kind, ids []string, docs []any) error {
		existing, err := store.List(ctx, kind)
		if err != nil {
			return fmt.Errorf("seed check %s: %w", kind, err)
		}
		if len(existing) > 0 {
			return nil
		}
		for i, doc := range docs {
			if err := store.Create(ctx, kind, ids[i], doc); err != nil {
				return fmt.Errorf("seed %s/%s: %w", kind, ids[i], err)
			}
			seeded++
		}
		return nil
	}

	var ids []string
	var docs []any
	for _, e := range SeedSoftware() {
		ids, docs = append(ids, e.ID), append(docs, e)
	}
	if err := seedCollection(models.KindSoftware, ids, docs); err != nil {
		return err
	}

	ids, docs = nil, nil
	for _, e := range SeedClassifications() {
		ids, docs = append(ids, e.ID), append(docs, e)
	}
	if err := seedCollection(models.KindClassifications, ids, docs); err != nil {
		return err
	}

	ids, docs = nil, nil
	for _, e := range SeedForumPosts() {
		ids, docs = append(ids, e.ID), append(docs, e)
	}
	if err := seedCollection(models.KindForumPosts, ids, docs); err != nil {
		return err
	}

	ids, docs = nil, nil
	for _, e := range SeedClassTopics() {
		ids, docs = append(ids, e.ID), append(docs, e)
	}
	if err := seedCollection(models.KindClassTopics, ids, docs); err != nil {
		return err
	}

	if seeded > 0 {
		log.Info().Int("documents", seeded).Msg("Seeded initial catalog data")
	}
	return nil
}
