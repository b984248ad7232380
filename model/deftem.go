package model

const deftem = `
import json
import pathlib

import joblib
import numpy as np
import pandas as pd

from catboost import CatBoostClassifier
from lightgbm import LGBMClassifier
from sklearn.ensemble import VotingClassifier
from sklearn.preprocessing import LabelEncoder, StandardScaler
from xgboost import XGBClassifier

################################################################################

ARTIFACT = "{{ .Pat }}"
BUFFER = ARTIFACT + "/" + "{{ .Buf }}"
TARGET = "{{ .Tar }}"
SEED = {{ .See }}
{{- if .Pre }}

MEAN = {{ .Pre.Mea }}
SCALE = {{ .Pre.Sca }}
SAMPLES = {{ .Pre.Sam }}
ENCODERS = {{ .Pre.Enc }}
{{- end }}

################################################################################

def load_matrix(path):
  c = pd.read_csv(path)
  y = c.pop(TARGET)

  return c.astype("float").to_numpy(), y.to_numpy()

################################################################################

def create_members(voting):
  # Only the LightGBM booster can be restored without Python. CatBoost and
  # XGBoost are part of the pickled ensemble only.
  lgb = voting.named_estimators_["lightgbm"].booster_
  lgb.save_model(ARTIFACT + "/" + "{{ .Lgb }}")

################################################################################
{{- if .Pre }}

def create_preprocessing():
  # The scaler and the encoders are fitted in Go. The pickles below carry the
  # same parameters for Python consumers of the artifact directory.
  scaler = StandardScaler()
  scaler.mean_ = np.array(MEAN, dtype=float)
  scaler.scale_ = np.array(SCALE, dtype=float)
  scaler.var_ = scaler.scale_ ** 2
  scaler.n_features_in_ = len(MEAN)
  scaler.n_samples_seen_ = SAMPLES
  joblib.dump(scaler, ARTIFACT + "/" + "{{ .Pre.Skp }}")

  encoders = {}
  for column, classes in ENCODERS.items():
    encoder = LabelEncoder()
    encoder.classes_ = np.array(classes, dtype=object)
    encoders[column] = encoder
  joblib.dump(encoders, ARTIFACT + "/" + "{{ .Pre.Ekp }}")

################################################################################
{{- end }}

def create_voting():
  return VotingClassifier(
    estimators=[
      ("catboost", CatBoostClassifier(verbose=0, random_seed=SEED)),
      ("xgboost", XGBClassifier(eval_metric="mlogloss", random_state=SEED)),
      ("lightgbm", LGBMClassifier(random_state=SEED, verbose=-1)),
    ],
    voting="soft",
  )

################################################################################

x_tra, y_tra = load_matrix(BUFFER + "/csv/tra.csv")
x_tes, y_tes = load_matrix(BUFFER + "/csv/tes.csv")

################################################################################

print("train voting ensemble")
voting = create_voting()
voting.fit(x_tra, y_tra)

################################################################################

pd.DataFrame({"pred": voting.predict(x_tes)}).to_csv(BUFFER + "/csv/pre.csv", index=False)

################################################################################

joblib.dump(voting, ARTIFACT + "/" + "{{ .Mod }}")
create_members(voting)
{{- if .Pre }}
create_preprocessing()
{{- end }}

################################################################################

pathlib.Path(BUFFER + "/res/").mkdir(exist_ok=True)
with open(BUFFER + "/res/cla.json", "w") as the_file:
  the_file.write(json.dumps({"classes": [int(c) for c in voting.classes_]}) + "\n")
`
