package models

import "encoding/json"

type Review struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"` // 1-5
	Image     string `json:"image,omitempty"`
	Date      string `json:"date"` // YYYY-MM-DD
}

// ReviewInput est le contenu du formulaire "laisser un avis"
type ReviewInput struct {
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Comment      string      `json:"comment"`
	Rating       RatingInput `json:"rating"` // valeur brute du sélecteur
	ImagePreview string      `json:"image_preview"`
}

// RatingInput accepte la note en texte ("5") comme en nombre (5)
type RatingInput string

func (r *RatingInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RatingInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RatingInput(n.String())
	return nil
}
