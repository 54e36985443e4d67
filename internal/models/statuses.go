package models

type VisitStatus int
type ReviewStatus int
type Rating int

const (
	VisitStatusNotConfirmed VisitStatus = 0
	VisitStatusConfirmed    VisitStatus = 1
	VisitStatusCancelled    VisitStatus = 2
	VisitStatusCompleted    VisitStatus = 3

	ReviewStatusPublished  ReviewStatus = 0
	ReviewStatusUnverified ReviewStatus = 1
	ReviewStatusApproved   ReviewStatus = 2
	ReviewStatusRejected   ReviewStatus = 3

	RatingTerrible  Rating = 1
	RatingBad       Rating = 2
	RatingNormal    Rating = 3
	RatingGood      Rating = 4
	RatingExcellent Rating = 5
)

var visitStatusLabels = map[VisitStatus]string{
	VisitStatusNotConfirmed: "Не подтверждена",
	VisitStatusConfirmed:    "Подтверждена",
	VisitStatusCancelled:    "Отменена",
	VisitStatusCompleted:    "Выполнена",
}

var reviewStatusLabels = map[ReviewStatus]string{
	ReviewStatusPublished:  "Опубликован",
	ReviewStatusUnverified: "Не проверен",
	ReviewStatusApproved:   "Одобрен",
	ReviewStatusRejected:   "Отклонен",
}

var ratingLabels = map[Rating]string{
	RatingTerrible:  "Ужасно",
	RatingBad:       "Плохо",
	RatingNormal:    "Нормально",
	RatingGood:      "Хорошо",
	RatingExcellent: "Отлично",
}

func (s VisitStatus) Valid() bool {
	_, ok := visitStatusLabels[s]
	return ok
}

func (s VisitStatus) Label() string {
	return visitStatusLabels[s]
}

func (s ReviewStatus) Valid() bool {
	_, ok := reviewStatusLabels[s]
	return ok
}

func (s ReviewStatus) Label() string {
	return reviewStatusLabels[s]
}

func (r Rating) Valid() bool {
	_, ok := ratingLabels[r]
	return ok
}

func (r Rating) Label() string {
	return ratingLabels[r]
}

// Choice - пара значение/подпись для выпадающих списков
type Choice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

func RatingChoices() []Choice {
	out := make([]Choice, 0, len(ratingLabels))
	for r := RatingTerrible; r <= RatingExcellent; r++ {
		out = append(out, Choice{Value: int(r), Label: r.Label()})
	}
	return out
}
