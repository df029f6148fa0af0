package email

const (
	subjectExpertContactedFmt = "Un nouvel avis d'enquête vous concerne : %s"
	subjectRDVProposed        = "Proposition de rendez-vous"
	subjectRDVAcceptedFmt     = "Rendez-vous accepté par %s"
	subjectRDVDeclinedFmt     = "Créneaux déclinés par %s"
	subjectRDVConfirmed       = "Votre rendez-vous est confirmé"
	subjectRDVCancelled       = "Rendez-vous annulé"
	subjectRDVReminder        = "Rappel : votre rendez-vous approche"
)
