package i18n

// catalogs holds the message catalogs keyed by locale, then message
// key. The English catalog is the authoritative key set; other locales
// may lag behind and fall back per key.
var catalogs = map[string]map[string]string{
	"en": {
		"email.subject":         "Package {name} is waiting for your authorization",
		"email.greeting":        "Hello,",
		"email.intro.standard":  "A package addressed to you is ready for delivery. Review the details below and authorize it to proceed.",
		"email.intro.suspended": "A package addressed to you is currently suspended. Review the details below and authorize its release.",
		"email.button":          "Authorize package",
		"email.map_label":       "View delivery location",
		"email.expiry":          "This authorization link expires in {minutes} minutes.",
		"email.footer":          "This is an automated message from {app}. If you were not expecting this package, you can ignore this email.",

		"authorize.success.title":     "Package authorized",
		"authorize.success.standard":  "Thank you. Delivery of {name} has been authorized and will proceed shortly.",
		"authorize.success.suspended": "Thank you. The suspended package {name} has been cleared for release.",
		"authorize.error.title":       "Link expired or invalid",
		"authorize.error.body":        "This authorization link is no longer valid. It may have expired or already been used. Please contact the sender for a new link.",

		"admin.subject": "Package {name} authorized ({kind})",
		"admin.body":    "The recipient authorized package {name} (tracking {tracking}, kind {kind}).",
	},
	"es": {
		"email.subject":         "El paquete {name} espera su autorización",
		"email.greeting":        "Hola,",
		"email.intro.standard":  "Un paquete dirigido a usted está listo para entrega. Revise los detalles y autorícelo para continuar.",
		"email.intro.suspended": "Un paquete dirigido a usted está actualmente suspendido. Revise los detalles y autorice su liberación.",
		"email.button":          "Autorizar paquete",
		"email.map_label":       "Ver lugar de entrega",
		"email.expiry":          "Este enlace de autorización caduca en {minutes} minutos.",
		"email.footer":          "Este es un mensaje automático de {app}. Si no esperaba este paquete, puede ignorar este correo.",

		"authorize.success.title":     "Paquete autorizado",
		"authorize.success.standard":  "Gracias. La entrega de {name} ha sido autorizada y continuará en breve.",
		"authorize.success.suspended": "Gracias. El paquete suspendido {name} ha sido liberado.",
		"authorize.error.title":       "Enlace caducado o inválido",
		"authorize.error.body":        "Este enlace de autorización ya no es válido. Puede haber caducado o haberse utilizado. Contacte al remitente para obtener uno nuevo.",
	},
	"fr": {
		"email.subject":         "Le colis {name} attend votre autorisation",
		"email.greeting":        "Bonjour,",
		"email.intro.standard":  "Un colis qui vous est adressé est prêt à être livré. Vérifiez les détails ci-dessous et autorisez la livraison.",
		"email.intro.suspended": "Un colis qui vous est adressé est actuellement suspendu. Vérifiez les détails ci-dessous et autorisez sa libération.",
		"email.button":          "Autoriser le colis",
		"email.map_label":       "Voir le lieu de livraison",
		"email.expiry":          "Ce lien d'autorisation expire dans {minutes} minutes.",
		"email.footer":          "Ceci est un message automatique de {app}. Si vous n'attendiez pas ce colis, vous pouvez ignorer cet e-mail.",

		"authorize.success.title":     "Colis autorisé",
		"authorize.success.standard":  "Merci. La livraison de {name} a été autorisée et va se poursuivre.",
		"authorize.success.suspended": "Merci. Le colis suspendu {name} a été libéré.",
		"authorize.error.title":       "Lien expiré ou invalide",
		"authorize.error.body":        "Ce lien d'autorisation n'est plus valide. Il a peut-être expiré ou déjà été utilisé. Contactez l'expéditeur pour un nouveau lien.",
	},
}
