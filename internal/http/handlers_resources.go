package httpx

import (
	"net/http"

	"github.com/Alexander2005-rgb/portfolio/internal/service/certificate"
	"github.com/Alexander2005-rgb/portfolio/internal/service/project"
	"github.com/Alexander2005-rgb/portfolio/internal/service/skill"
)

func (r *Router) handleListProjects(w http.ResponseWriter, req *http.Request) {
	projects, err := r.services.Projects.List(req.Context())
	if err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (r *Router) handleGetProject(w http.ResponseWriter, req *http.Request) {
	p, err := r.services.Projects.Get(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (r *Router) handleCreateProject(w http.ResponseWriter, req *http.Request) {
	var payload project.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	p, err := r.services.Projects.Create(req.Context(), payload)
	if err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Project added!", "project": p})
}

func (r *Router) handleUpdateProject(w http.ResponseWriter, req *http.Request) {
	var payload project.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	p, err := r.services.Projects.Update(req.Context(), req.PathValue("id"), payload)
	if err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Project updated!", "project": p})
}

func (r *Router) handleDeleteProject(w http.ResponseWriter, req *http.Request) {
	p, err := r.services.Projects.Delete(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Project")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Project deleted.", "project": p})
}

func (r *Router) handleListCertificates(w http.ResponseWriter, req *http.Request) {
	certs, err := r.services.Certificates.List(req.Context())
	if err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

func (r *Router) handleGetCertificate(w http.ResponseWriter, req *http.Request) {
	c, err := r.services.Certificates.Get(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (r *Router) handleCreateCertificate(w http.ResponseWriter, req *http.Request) {
	var payload certificate.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	c, err := r.services.Certificates.Create(req.Context(), payload)
	if err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Certificate added successfully", "certificate": c})
}

func (r *Router) handleUpdateCertificate(w http.ResponseWriter, req *http.Request) {
	var payload certificate.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	c, err := r.services.Certificates.Update(req.Context(), req.PathValue("id"), payload)
	if err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Certificate updated successfully", "certificate": c})
}

func (r *Router) handleDeleteCertificate(w http.ResponseWriter, req *http.Request) {
	c, err := r.services.Certificates.Delete(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Certificate")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Certificate deleted successfully", "certificate": c})
}

func (r *Router) handleListSkills(w http.ResponseWriter, req *http.Request) {
	skills, err := r.services.Skills.List(req.Context())
	if err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

func (r *Router) handleGetSkill(w http.ResponseWriter, req *http.Request) {
	sk, err := r.services.Skills.Get(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

func (r *Router) handleCreateSkill(w http.ResponseWriter, req *http.Request) {
	var payload skill.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	sk, err := r.services.Skills.Create(req.Context(), payload)
	if err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Skill added!", "skill": sk})
}

func (r *Router) handleUpdateSkill(w http.ResponseWriter, req *http.Request) {
	var payload skill.Input
	if err := decodeJSON(w, req, &payload); err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	sk, err := r.services.Skills.Update(req.Context(), req.PathValue("id"), payload)
	if err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Skill updated!", "skill": sk})
}

func (r *Router) handleDeleteSkill(w http.ResponseWriter, req *http.Request) {
	sk, err := r.services.Skills.Delete(req.Context(), req.PathValue("id"))
	if err != nil {
		r.fail(w, req, err, "Skill")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Skill deleted.", "skill": sk})
}
